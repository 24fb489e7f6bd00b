package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"SkillLog/internal/core/toggles"
)

func newUpvoteCmd(opts *options) *cobra.Command {
	var (
		itemType string
		authorID string
		repeat   int
	)

	cmd := &cobra.Command{
		Use:   "upvote <item-id>",
		Short: "Toggle your upvote on a log or comment",
		Long: `Toggle your upvote on a log or comment.

The new state is shown immediately, then again once the server has answered.
A rejected toggle is rolled back. --repeat toggles several times in a row to
show that calls for one item reach the server in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := toggles.ParseItemType(itemType)
			if err != nil {
				return err
			}
			item := toggles.Item{ID: args[0], Type: t, AuthorID: authorID}
			if err := item.Validate(); err != nil {
				return err
			}
			if repeat < 1 {
				repeat = 1
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			rec := toggles.NewReconciler(nil, c,
				toggles.WithSerializedItems(),
				toggles.WithLogger(opts.logger()),
				toggles.WithNotifier(func(item toggles.Item, err error) {
					fmt.Fprintf(out, "rolled back %s: %v\n", item.ID, err)
				}),
			)
			if err := rec.Refresh(ctx, c); err != nil {
				return err
			}

			// The server count includes our own upvote; strip it so the local
			// state alone decides whether it is shown.
			base := -1
			if t == toggles.ItemTypeLog {
				entry, err := c.GetLog(ctx, item.ID)
				if err != nil {
					return err
				}
				base = entry.Upvotes
				if rec.IsOn(item.ID) {
					base--
				}
			}

			for i := 0; i < repeat; i++ {
				if _, err := rec.Toggle(ctx, item); err != nil {
					return err
				}
				printState(out, "optimistic", rec, item.ID, base)
			}
			rec.Wait()

			if t == toggles.ItemTypeLog {
				entry, err := c.GetLog(ctx, item.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "reconciled: upvoted=%t count=%d\n", rec.IsOn(item.ID), entry.Upvotes)
				return nil
			}
			printState(out, "reconciled", rec, item.ID, base)
			return nil
		},
	}

	cmd.Flags().StringVar(&itemType, "type", "log", "log or comment")
	cmd.Flags().StringVar(&authorID, "author", "", "id of the item's author (required)")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "number of toggles to send")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func printState(out io.Writer, label string, rec *toggles.Reconciler, id string, base int) {
	if base < 0 {
		fmt.Fprintf(out, "%s: upvoted=%t (%s)\n", label, rec.IsOn(id), rec.StateOf(id))
		return
	}
	fmt.Fprintf(out, "%s: upvoted=%t count=%d (%s)\n", label, rec.IsOn(id), rec.VisibleCount(id, base), rec.StateOf(id))
}

func newUpvotesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "upvotes",
		Short: "List the ids you have upvoted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			state := toggles.NewState()
			rec := toggles.NewReconciler(state, c)
			if err := rec.Refresh(ctx, c); err != nil {
				return err
			}
			for _, id := range state.Snapshot() {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
