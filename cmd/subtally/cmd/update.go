package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/client"
	"github.com/subtally/subtally/internal/domain"
)

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringP("name", "n", "", "New name")
	updateCmd.Flags().StringP("price", "p", "", "New price per billing cycle, e.g. 9.99")
	updateCmd.Flags().StringP("cycle", "c", "", "New billing cycle: monthly or yearly")
	updateCmd.Flags().StringP("renewal", "r", "", "New renewal date, YYYY-MM-DD")
	updateCmd.Flags().String("category", "", "New category label")
	updateCmd.Flags().String("notes", "", "New notes")
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rec client.UpdateRecord

		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			rec.Name = &name
		}
		if cmd.Flags().Changed("price") {
			raw, _ := cmd.Flags().GetString("price")
			price, err := parsePrice(raw)
			if err != nil {
				return err
			}
			rec.Price = &price
		}
		if cmd.Flags().Changed("cycle") {
			raw, _ := cmd.Flags().GetString("cycle")
			cycle := domain.Cycle(raw)
			rec.Cycle = &cycle
		}
		if cmd.Flags().Changed("renewal") {
			raw, _ := cmd.Flags().GetString("renewal")
			date, err := parseDate(raw)
			if err != nil {
				return err
			}
			rec.RenewalDate = date
		}
		if cmd.Flags().Changed("category") {
			category, _ := cmd.Flags().GetString("category")
			rec.Category = &category
		}
		if cmd.Flags().Changed("notes") {
			notes, _ := cmd.Flags().GetString("notes")
			rec.Notes = &notes
		}

		if rec == (client.UpdateRecord{}) {
			return fmt.Errorf("nothing to update, pass at least one flag")
		}

		env := newEnv()
		if err := env.requireSession(cmd.Context()); err != nil {
			return err
		}

		id, err := resolveID(cmd.Context(), env, args[0])
		if err != nil {
			return err
		}

		updated, err := env.api.Update(cmd.Context(), id, rec)
		if err != nil {
			return err
		}

		fmt.Printf("Updated %s.\n", updated.Name)
		return nil
	},
}
