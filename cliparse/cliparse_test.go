// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("HOST_KEY_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite default, got %q", cfg.DatabaseType)
	}
	if cfg.DatabasePath != "./rooms.db" {
		t.Errorf("expected default db path, got %q", cfg.DatabasePath)
	}
	if cfg.OpenAIBaseURL != defaultOpenAIBaseURL {
		t.Errorf("expected default OpenAI base URL, got %q", cfg.OpenAIBaseURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("HOST_KEY_SALT", "env-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-host-salt", "cli-salt"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.HostKeySalt != "cli-salt" {
		t.Errorf("CLI should override env: expected cli-salt, got %q", cfg.HostKeySalt)
	}
}

func TestParseFlags_DefaultPort(t *testing.T) {
	os.Clearenv()
	os.Setenv("HOST_KEY_SALT", "s")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3420 {
		t.Errorf("expected default port 3420, got %d", cfg.Port)
	}
}

func TestParseFlags_RequiresHostSalt(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error without HOST_KEY_SALT")
	}
}

func TestParseFlags_RequiresURLForPostgres(t *testing.T) {
	os.Clearenv()
	os.Setenv("HOST_KEY_SALT", "s")
	defer os.Clearenv()

	if _, err := ParseFlags([]string{"-t", "postgres"}); err == nil {
		t.Error("expected error for postgres without DATABASE_URL")
	}

	cfg, err := ParseFlags([]string{"-t", "postgres", "-d", "postgres://test"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("expected URL to be kept, got %q", cfg.DatabaseURL)
	}
}
