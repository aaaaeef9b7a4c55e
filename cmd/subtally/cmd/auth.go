package cmd

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		env := newEnv()
		result, err := env.session.SignUp(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}

		if result.PendingConfirmation {
			fmt.Println("Account created. Check your inbox to confirm your email, then run `subtally login`.")
			return nil
		}

		if err := saveSession(result.Session); err != nil {
			return err
		}
		fmt.Printf("Signed up and logged in as %s.\n", result.Session.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to your account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		env := newEnv()
		session, err := env.session.SignIn(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}

		if err := saveSession(session); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s.\n", session.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and revoke the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := newEnv()
		// Best effort server-side; the local session goes away regardless.
		if err := env.requireSession(cmd.Context()); err == nil {
			_ = env.session.SignOut(cmd.Context())
		}
		if err := clearSession(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	password := strings.TrimSpace(string(raw))
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}
