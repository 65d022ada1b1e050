package config

import (
	"os"
	"path/filepath"
	"testing"

	"planner-go/pkg/logger"
)

func TestApplyDotEnvKeepsExisting(t *testing.T) {
	t.Setenv("PLANNER_TEST_KEEP", "env")
	t.Setenv("PLANNER_TEST_NEW", "")
	if err := os.Unsetenv("PLANNER_TEST_NEW"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	loaded, skipped, err := applyDotEnv(map[string]string{
		"PLANNER_TEST_KEEP": "file",
		"PLANNER_TEST_NEW":  "file",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if loaded != 1 {
		t.Fatalf("expected 1 loaded, got %d", loaded)
	}
	if len(skipped) != 1 || skipped[0] != "PLANNER_TEST_KEEP" {
		t.Fatalf("expected PLANNER_TEST_KEEP skipped, got %v", skipped)
	}
	if got := os.Getenv("PLANNER_TEST_KEEP"); got != "env" {
		t.Fatalf("expected env value kept, got %q", got)
	}
	if got := os.Getenv("PLANNER_TEST_NEW"); got != "file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Setenv(dotenvPathEnv, filepath.Join(t.TempDir(), "missing.env"))

	if err := loadDotEnv(logger.Discard()); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvParsesQuotesAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# local\nexport PLANNER_TEST_QUOTED=\"a # b\"\nPLANNER_TEST_PLAIN=value # trailing\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(dotenvPathEnv, path)
	t.Setenv("PLANNER_TEST_QUOTED", "")
	t.Setenv("PLANNER_TEST_PLAIN", "")
	_ = os.Unsetenv("PLANNER_TEST_QUOTED")
	_ = os.Unsetenv("PLANNER_TEST_PLAIN")

	if err := loadDotEnv(logger.Discard()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := os.Getenv("PLANNER_TEST_QUOTED"); got != "a # b" {
		t.Fatalf("expected quoted value, got %q", got)
	}
	if got := os.Getenv("PLANNER_TEST_PLAIN"); got != "value" {
		t.Fatalf("expected comment stripped, got %q", got)
	}
}
