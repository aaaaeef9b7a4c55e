package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/renewal"
)

func init() {
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show monthly and yearly spend, broken down by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := newEnv()
		if err := env.requireSession(cmd.Context()); err != nil {
			return err
		}

		subs, err := env.api.List(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Subscriptions: %d\n", len(subs))
		fmt.Printf("Monthly spend: %s\n", renewal.TotalMonthly(subs).String())
		fmt.Printf("Yearly spend:  %s\n", renewal.TotalYearly(subs).String())

		byCategory := renewal.AggregateByCategory(subs)
		if len(byCategory) == 0 {
			return nil
		}

		categories := make([]string, 0, len(byCategory))
		for c := range byCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tPER MONTH")
		for _, c := range categories {
			fmt.Fprintf(w, "%s\t%s\n", c, byCategory[c].String())
		}
		return w.Flush()
	},
}
