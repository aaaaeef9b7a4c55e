package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/renewal"
)

func init() {
	rootCmd.AddCommand(upcomingCmd)

	upcomingCmd.Flags().IntP("days", "d", 30, "How many days ahead to look")
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show subscriptions renewing soon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		env := newEnv()
		if err := env.requireSession(cmd.Context()); err != nil {
			return err
		}

		subs, err := env.api.List(cmd.Context())
		if err != nil {
			return err
		}

		printSubscriptions(renewal.UpcomingWithin(subs, days, time.Now()))
		return nil
	},
}
