package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/learntrack/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := newEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Orchestrator: e.orch,
		UserID:       e.cfg.UserID,
		Log:          e.log,
		Splash:       !noSplash,
	})
}
