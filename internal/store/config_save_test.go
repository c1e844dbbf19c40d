package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("FIDELITY_CONFIG_DIR", cfgDir)

	if err := SaveConfig(&GlobalConfig{LogLevel: "info"}); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 64
	errCh := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			cfg, err := LoadConfig()
			if err != nil {
				errCh <- err
				return
			}
			cfg.DataDir = fmt.Sprintf("/tmp/cases-%d", i)
			cfg.SaveDebounceMs = 100 + i
			if err := SaveConfig(cfg); err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}
	if t.Failed() {
		return
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config.json: %v", err)
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("config.json corrupted/unparseable: %v\nraw:\n%s", err, string(raw))
	}

	ents, err := os.ReadDir(cfgDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, "config.json.") && strings.HasSuffix(name, ".tmp") {
			t.Fatalf("leftover temp file: %s", name)
		}
	}

	if bak, err := os.ReadFile(path + ".bak"); err == nil && len(bak) > 0 {
		var bakCfg GlobalConfig
		if err := json.Unmarshal(bak, &bakCfg); err != nil {
			t.Fatalf("config.json.bak corrupted/unparseable: %v\nraw:\n%s", err, string(bak))
		}
	}
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("FIDELITY_CONFIG_DIR", t.TempDir())
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DataDir != "" || cfg.SaveDebounce() != DefaultSaveDebounce {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_BlankAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FIDELITY_CONFIG_DIR", dir)
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("blank config should load as empty: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"role": " clinician ", "childFirst": true}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig()
	if err != nil || cfg.Role != "clinician" || !cfg.ChildFirst {
		t.Fatalf("cfg=%+v err=%v", cfg, err)
	}

	if err := os.WriteFile(path, []byte(`{"role":`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "config.json") {
		t.Fatalf("expected parse error naming the file; got %v", err)
	}
}

func TestGlobalConfig_SaveDebounce(t *testing.T) {
	var nilCfg *GlobalConfig
	if got := nilCfg.SaveDebounce(); got != DefaultSaveDebounce {
		t.Fatalf("nil config: got %v", got)
	}
	cfg := &GlobalConfig{SaveDebounceMs: 50}
	if got := cfg.SaveDebounce(); got != 50*time.Millisecond {
		t.Fatalf("got %v; want 50ms", got)
	}
}

func TestDataDir_Precedence(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("FIDELITY_CONFIG_DIR", cfgDir)

	got, err := DataDir("", nil)
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if got != filepath.Join(cfgDir, "data") {
		t.Fatalf("default: got %q", got)
	}

	got, _ = DataDir("", &GlobalConfig{DataDir: "/srv/cases/"})
	if got != filepath.Clean("/srv/cases") {
		t.Fatalf("config: got %q", got)
	}

	got, _ = DataDir(" /explicit ", &GlobalConfig{DataDir: "/srv/cases"})
	if got != filepath.Clean("/explicit") {
		t.Fatalf("explicit: got %q", got)
	}
}
