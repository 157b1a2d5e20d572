package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fluxoclean/console-bfa-go/internal/config"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# local overrides\n" +
		"export CONSOLE_TEST_EXPORTED=from-file\n" +
		"CONSOLE_TEST_QUOTED=\"quoted value\"\n" +
		"CONSOLE_TEST_SET=file-loses\n" +
		"not a pair\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	t.Setenv("CONSOLE_TEST_SET", "env-wins")
	t.Cleanup(func() {
		os.Unsetenv("CONSOLE_TEST_EXPORTED")
		os.Unsetenv("CONSOLE_TEST_QUOTED")
	})

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("CONSOLE_TEST_EXPORTED"); got != "from-file" {
		t.Errorf("export line not loaded: %q", got)
	}
	if got := os.Getenv("CONSOLE_TEST_QUOTED"); got != "quoted value" {
		t.Errorf("quotes not stripped: %q", got)
	}
	if got := os.Getenv("CONSOLE_TEST_SET"); got != "env-wins" {
		t.Errorf("existing env var must win: %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
