package cli

import (
	"fmt"
	"os"
	"strings"

	"fidelity-cli/internal/format"
	"fidelity-cli/internal/logging"
	"fidelity-cli/internal/model"
	"fidelity-cli/internal/schema"
	"fidelity-cli/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	PrettyJSON bool
	LogLevel   string
	Role       string
	ChildFirst bool

	cfg *store.GlobalConfig
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "fidelity",
		Short:        "Fidelity checklists for CPP / Child First cases (CLI + focus mode)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start a case and answer it one item at a time
  fidelity cases new --variant foundational --name "Intake A" --initials AB
  fidelity

  # Scriptable commands
  fidelity set caseInfo.clientInitials AB
  fidelity progress
  fidelity next

  # Direct case lookup (shortcut for: fidelity cases show <case-id>)
  fidelity 6f0c1f0e-3c6b-4d0a-9d55-1f2b3c4d5e6f
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => focus mode on the current case.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runFocus(cmd, app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("FIDELITY_DIR", ""), "Path to the data dir (overrides config dataDir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("FIDELITY_LOG_LEVEL", ""), "Log level (debug|info|warn|error; default from config, then info)")
	cmd.PersistentFlags().StringVar(&app.Role, "role", "", "Show items for one role only (clinician|careCoordinator; default from config)")
	cmd.PersistentFlags().BoolVar(&app.ChildFirst, "child-first", false, "Show Child First only items (default from config)")

	cmd.AddCommand(newCasesCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newProgressCmd(app))
	cmd.AddCommand(newNextCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newSchemaCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newFocusCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup loads the global config and builds the logger. A broken config is an error; a
// logger that cannot open its file falls back to a no-op so commands still run.
func (app *App) setup() error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.cfg = cfg

	level := app.LogLevel
	if level == "" {
		level = cfg.LogLevel
	}
	path := strings.TrimSpace(os.Getenv("FIDELITY_LOG"))
	if path == "" {
		if p, err := store.LogPath(); err == nil {
			path = p
		}
	}
	l, err := logging.New(logging.Options{Level: level, Path: path})
	if err != nil {
		l = zap.NewNop()
	}
	app.log = l
	return nil
}

func (app *App) logger() *zap.Logger {
	return logging.OrNop(app.log)
}

// audience merges the display flags with the config defaults.
func (app *App) audience(cmd *cobra.Command) (schema.Audience, error) {
	var a schema.Audience
	role := app.Role
	if !cmd.Flags().Changed("role") && app.cfg != nil {
		role = app.cfg.Role
	}
	switch strings.TrimSpace(role) {
	case "", "any", "all":
		a.Role = schema.RoleAny
	case string(schema.RoleClinician):
		a.Role = schema.RoleClinician
	case string(schema.RoleCareCoordinator):
		a.Role = schema.RoleCareCoordinator
	default:
		return a, fmt.Errorf("invalid role %q (expected clinician or careCoordinator)", role)
	}
	a.ChildFirst = app.ChildFirst
	if !cmd.Flags().Changed("child-first") && app.cfg != nil {
		a.ChildFirst = app.cfg.ChildFirst
	}
	return a, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir, err := store.DataDir(app.Dir, app.cfg)
	if err != nil {
		return nil, store.Store{}, err
	}
	app.Dir = dir

	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// saveDB persists db and logs the outcome.
func saveDB(app *App, s store.Store, db *store.DB, action string) error {
	if err := s.Save(db); err != nil {
		app.logger().Error("save failed", zap.String("action", action), zap.Error(err))
		return err
	}
	app.logger().Info(action, zap.Int("cases", len(db.Cases)), zap.String("currentCaseId", db.CurrentCaseID))
	return nil
}

// resolveCase returns the case named by id, or the current case when id is empty.
func resolveCase(db *store.DB, id string) (*model.Case, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		c, ok := db.Current()
		if !ok {
			return nil, errNoCurrentCase
		}
		return c, nil
	}
	c, ok := db.FindCase(id)
	if !ok {
		return nil, errNotFound("case", id)
	}
	return c, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteData(cmd.OutOrStdout(), v, nil, app.PrettyJSON)
}

// writeErr reports err on stderr as an error envelope and returns it for cobra.
func writeErr(cmd *cobra.Command, err error) error {
	_ = format.WriteError(cmd.ErrOrStderr(), errorCode(err), err.Error(), false)
	return err
}
