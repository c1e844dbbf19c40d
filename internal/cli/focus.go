package cli

import (
	"fidelity-cli/internal/store"
	"fidelity-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newFocusCmd(app *App) *cobra.Command {
	var caseID string

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Answer a case one item at a time (interactive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFocus(cmd, app, caseID)
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case id to select first (default: current case)")

	return cmd
}

func runFocus(cmd *cobra.Command, app *App, caseID string) error {
	aud, err := app.audience(cmd)
	if err != nil {
		return writeErr(cmd, err)
	}
	db, s, err := loadDB(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	if caseID != "" {
		if !db.SelectCase(caseID) {
			return writeErr(cmd, errNotFound("case", caseID))
		}
	}
	if _, ok := db.Current(); !ok {
		return writeErr(cmd, errNoCurrentCase)
	}

	log := app.logger()
	saver := store.NewDebouncedSaver(store.DebouncedSaverOpts{
		Saver:    s,
		Debounce: app.cfg.SaveDebounce(),
		Logger:   log,
	})
	if caseID != "" {
		saver.Notify(db)
	}
	log.Info("focus mode", zap.String("caseId", db.CurrentCaseID), zap.String("dir", s.Dir))

	runErr := tui.Run(tui.Options{
		Store:    s,
		DB:       db,
		Saver:    saver,
		Audience: aud,
		Logger:   log,
	})
	if err := saver.Close(); err != nil {
		log.Error("final save failed", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return writeErr(cmd, runErr)
	}
	return nil
}
