package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskbrain/internal/scheduler"
	"github.com/sandeepkv93/taskbrain/internal/update"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive capture terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			a, err := newApp(cmd.Context(), cfg, cfg.Learner.ReplayOnStart)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if userID == "" {
				userID = cfg.TUI.UserID
			}
			engine := scheduler.NewEngine(cfg.TUI.SchedulerBuffer)
			engine.Start()
			defer engine.Stop()

			m := update.NewModel(a.service,
				update.Config{UserID: userID, StatePath: cfg.TUI.StatePath},
				update.WithScheduler(engine),
				update.WithClock(a.now),
			)
			program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("taskbrain tui failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id (default tui.user_id)")
	return cmd
}
