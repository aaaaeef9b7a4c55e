package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/subtally/subtally/internal/client"
)

var rootCmd = &cobra.Command{
	Use:   "subtally",
	Short: "Track recurring subscriptions from the terminal",
	Long: `subtally is the command-line client for the subscription tracking API.

Sign up or log in once; the session is kept in your config directory and
renewed automatically. All data lives on the server, every command shows
the live state.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the CLI. Ctrl-C cancels the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var apiURL string

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("SUBTALLY_API", "http://localhost:8080"), "Base URL of the subtally API")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// cliEnv bundles the pieces every command needs.
type cliEnv struct {
	api     *client.HTTPClient
	session *client.SessionContext
}

func newEnv() *cliEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := client.NewHTTPClient(apiURL, nil)
	return &cliEnv{
		api:     api,
		session: client.NewSessionContext(api, logger),
	}
}

// requireSession restores the stored session and fails when none is active.
// The rotated refresh token is persisted so the next invocation still works.
func (e *cliEnv) requireSession(ctx context.Context) error {
	stored, _ := loadSessionFile()
	e.session.Resolve(ctx, stored.RefreshToken)

	if e.session.State() != client.StateAuthed {
		return errors.New("not logged in, run `subtally login` first")
	}
	return saveSession(e.session.Current())
}

// sessionFile is what survives between invocations. The access token is
// short-lived and deliberately not stored.
type sessionFile struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
}

func sessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "subtally", "session.json"), nil
}

func loadSessionFile() (sessionFile, error) {
	var sf sessionFile
	path, err := sessionPath()
	if err != nil {
		return sf, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sf, err
	}
	err = json.Unmarshal(data, &sf)
	return sf, err
}

func saveSession(s *client.Session) error {
	if s == nil {
		return nil
	}
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sessionFile{Email: s.Email, RefreshToken: s.RefreshToken}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func clearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
