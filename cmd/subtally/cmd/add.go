package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/client"
	"github.com/subtally/subtally/internal/domain"
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("price", "p", "", "Price per billing cycle, e.g. 9.99 (required)")
	addCmd.Flags().StringP("cycle", "c", "monthly", "Billing cycle: monthly or yearly")
	addCmd.Flags().StringP("renewal", "r", "", "Next renewal date, YYYY-MM-DD")
	addCmd.Flags().String("category", "", "Category label")
	addCmd.Flags().String("notes", "", "Free-form notes")
	_ = addCmd.MarkFlagRequired("price")
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priceStr, _ := cmd.Flags().GetString("price")
		cycle, _ := cmd.Flags().GetString("cycle")
		renewalStr, _ := cmd.Flags().GetString("renewal")
		category, _ := cmd.Flags().GetString("category")
		notes, _ := cmd.Flags().GetString("notes")

		price, err := parsePrice(priceStr)
		if err != nil {
			return err
		}
		renewalDate, err := parseDate(renewalStr)
		if err != nil {
			return err
		}

		env := newEnv()
		if err := env.requireSession(cmd.Context()); err != nil {
			return err
		}

		created, err := env.api.Create(cmd.Context(), client.CreateRecord{
			Name:        args[0],
			Price:       price,
			Cycle:       domain.Cycle(cycle),
			RenewalDate: renewalDate,
			Category:    category,
			Notes:       notes,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added %s (%s).\n", created.Name, shortID(created.ID.String()))
		return nil
	},
}
