package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/client"
	"github.com/subtally/subtally/internal/domain"
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("interval", time.Second, "How often to check for changes")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of your subscriptions, updating as they change",
	Long: `Keeps a synchronized copy of your subscription list and reprints it
whenever a change lands, whether it came from this machine or another
signed-in client. Interrupt with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")

		env := newEnv()
		if err := env.requireSession(cmd.Context()); err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		store := client.NewStore(env.api, logger)
		if err := store.Bind(cmd.Context()); err != nil {
			return err
		}
		defer store.Close()

		last := store.List()
		printSubscriptions(last)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case <-ticker.C:
				current := store.List()
				if equalLists(last, current) {
					continue
				}
				last = current
				fmt.Println()
				printSubscriptions(current)
			}
		}
	},
}

func equalLists(a, b []domain.Subscription) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].UpdatedAt.Equal(b[i].UpdatedAt) {
			return false
		}
	}
	return true
}
