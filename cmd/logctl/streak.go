package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"SkillLog/internal/core/streaks"
)

func newStreakCmd(opts *options) *cobra.Command {
	var tz, from string

	cmd := &cobra.Command{
		Use:   "streak [user-id]",
		Short: "Show a user's current streak",
		Long: "Show a user's current streak as computed by the server, or with --from compute it\n" +
			"locally from a file of RFC 3339 timestamps, one per line (\"-\" reads stdin).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from != "" {
				return localStreak(cmd, from, tz)
			}
			if len(args) != 1 {
				return fmt.Errorf("a user id is required unless --from is given")
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			streak, err := c.GetStreak(ctx, args[0], tz)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d day streak (%s)\n", streak.UserID, streak.Days, streak.Timezone)
			if streak.Days > 0 && !streak.Today {
				fmt.Fprintln(out, "No log yet today, log something to keep it going.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone, defaults to the server's (UTC with --from)")
	cmd.Flags().StringVar(&from, "from", "", "compute locally from a timestamp file instead of asking the server")
	return cmd
}

func localStreak(cmd *cobra.Command, from, tz string) error {
	loc := time.UTC
	if tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			return fmt.Errorf("invalid time zone %q: %w", tz, err)
		}
	}

	var in io.Reader = cmd.InOrStdin()
	if from != "-" {
		f, err := os.Open(from)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var raw []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			raw = append(raw, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", from, err)
	}

	records, skipped := streaks.RecordsFromTimestamps(raw)
	days := streaks.NewCalculator(loc).Calculate(records)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "local: %d day streak (%s)\n", days, loc)
	if skipped > 0 {
		fmt.Fprintf(out, "skipped %d unreadable timestamp(s)\n", skipped)
	}
	return nil
}
