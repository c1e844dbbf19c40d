package cli

import (
	"fmt"
	"strconv"
	"strings"

	"fidelity-cli/internal/schema"
	"fidelity-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the global config",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the global config and where it lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			dataDir, err := store.DataDir("", app.cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"path":         path,
				"config":       app.cfg,
				"dataDir":      dataDir,
				"saveDebounce": app.cfg.SaveDebounce().String(),
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one config key (dataDir, saveDebounceMs, logLevel, role, childFirst)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.cfg
			if err := applyConfigKey(&cfg, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(&cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.cfg = &cfg
			return writeOut(cmd, app, &cfg)
		},
	})

	return cmd
}

func applyConfigKey(cfg *store.GlobalConfig, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "dataDir":
		cfg.DataDir = value
	case "saveDebounceMs":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("saveDebounceMs must be a non-negative integer: %q", value)
		}
		cfg.SaveDebounceMs = n
	case "logLevel":
		switch strings.ToLower(value) {
		case "", "debug", "info", "warn", "error":
			cfg.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid logLevel %q (expected debug|info|warn|error)", value)
		}
	case "role":
		switch schema.Role(value) {
		case schema.RoleAny, schema.RoleClinician, schema.RoleCareCoordinator:
			cfg.Role = value
		default:
			return fmt.Errorf("invalid role %q (expected clinician, careCoordinator or empty)", value)
		}
	case "childFirst":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("childFirst must be true or false: %q", value)
		}
		cfg.ChildFirst = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
