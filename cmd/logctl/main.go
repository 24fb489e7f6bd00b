// logctl is a command line client for the SkillLog API.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"SkillLog/internal/client"
)

// options are the persistent flags shared by every subcommand
type options struct {
	apiURL  string
	token   string
	timeout time.Duration
	verbose bool
}

func (o *options) client() (*client.Client, error) {
	if o.token == "" {
		return nil, fmt.Errorf("no token: pass --token or set SKILLLOG_TOKEN")
	}
	return client.New(o.apiURL, o.token, client.WithLogger(o.logger())), nil
}

func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "logctl",
		Short:         "Command line client for SkillLog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("SKILLLOG_URL", "http://localhost:8080"), "API base URL (or set SKILLLOG_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SKILLLOG_TOKEN"), "bearer token (or set SKILLLOG_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newStreakCmd(opts))
	rootCmd.AddCommand(newUpvoteCmd(opts))
	rootCmd.AddCommand(newUpvotesCmd(opts))
	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
