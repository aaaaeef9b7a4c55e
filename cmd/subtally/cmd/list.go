package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/domain"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your subscriptions",
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

		printSubscriptions(subs)
		return nil
	},
}

// resolveID accepts a full UUID or an unambiguous prefix of one.
func resolveID(ctx context.Context, env *cliEnv, arg string) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}

	subs, err := env.api.List(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	var matches []domain.Subscription
	for _, s := range subs {
		if strings.HasPrefix(s.ID.String(), strings.ToLower(arg)) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("no subscription matches %q", arg)
	case 1:
		return matches[0].ID, nil
	default:
		return uuid.Nil, fmt.Errorf("%q is ambiguous, matches %d subscriptions", arg, len(matches))
	}
}
