package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultSaveDebounce = 400 * time.Millisecond

type GlobalConfig struct {
	// DataDir overrides where case data lives (default <configDir>/data).
	DataDir string `json:"dataDir,omitempty"`

	// SaveDebounceMs is the quiet period before pending edits are written.
	SaveDebounceMs int `json:"saveDebounceMs,omitempty"`

	// LogLevel is one of debug|info|warn|error.
	LogLevel string `json:"logLevel,omitempty"`

	// Role narrows focus mode to clinician or careCoordinator items.
	Role string `json:"role,omitempty"`

	// ChildFirst shows items that only apply to child-first cases.
	ChildFirst bool `json:"childFirst,omitempty"`
}

// SaveDebounce returns the configured debounce, falling back to DefaultSaveDebounce.
func (c *GlobalConfig) SaveDebounce() time.Duration {
	if c == nil || c.SaveDebounceMs <= 0 {
		return DefaultSaveDebounce
	}
	return time.Duration(c.SaveDebounceMs) * time.Millisecond
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.fidelity).
	if v := strings.TrimSpace(os.Getenv("FIDELITY_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".fidelity"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath is the default log file.
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fidelity.log"), nil
}

// LoadConfig reads the global config. A missing file is an empty config.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg := &GlobalConfig{}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, err
	case len(bytes.TrimSpace(b)) == 0:
		return cfg, nil
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Role = strings.TrimSpace(cfg.Role)
	return cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	// After a successful rename this removes nothing.
	defer os.Remove(tmp)

	_, werr := f.Write(b)
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), werr)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep the previous config around; failures here must not block the save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
