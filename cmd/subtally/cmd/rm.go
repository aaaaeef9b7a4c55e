package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rmCmd)
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := newEnv()
		if err := env.requireSession(cmd.Context()); err != nil {
			return err
		}

		id, err := resolveID(cmd.Context(), env, args[0])
		if err != nil {
			return err
		}

		if err := env.api.Delete(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Printf("Deleted %s.\n", shortID(id.String()))
		return nil
	},
}
