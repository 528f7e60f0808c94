package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "add [task text]",
		Short: "Capture a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.cfg.Learner.ReplayOnStart)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			task, err := a.service.CreateTask(cmd.Context(), userOrDefault(userID, opts), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"external_id":        task.ExternalID,
				"predicted_category": string(task.Category),
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id (default tui.user_id)")
	return cmd
}

// Read-only commands always replay: a fresh process has learned nothing yet.
func newSuggestCmd(opts *rootOptions) *cobra.Command {
	var userID string
	var partial string
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print suggestions, or completions with --complete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			user := userOrDefault(userID, opts)
			if partial != "" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"completions": a.service.Completions(user, partial, limit),
				})
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"suggestions": a.service.Suggestions(user),
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id (default tui.user_id)")
	cmd.Flags().StringVar(&partial, "complete", "", "partial text to complete")
	cmd.Flags().IntVarP(&limit, "limit", "n", 3, "maximum completions")
	return cmd
}

func newInsightsCmd(opts *rootOptions) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Print what has been learned about a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			return writeJSON(cmd.OutOrStdout(), a.service.Insights(userOrDefault(userID, opts)))
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id (default tui.user_id)")
	return cmd
}

func userOrDefault(userID string, opts *rootOptions) string {
	if userID != "" {
		return userID
	}
	return opts.cfg.TUI.UserID
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
