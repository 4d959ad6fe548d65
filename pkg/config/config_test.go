package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestGetDefaultConfig(t *testing.T) {
	RegisterTestingT(t)

	cfg := GetDefaultConfig()

	Expect(cfg.Port).To(Equal("8080"))
	Expect(cfg.Environment).To(Equal("development"))
	Expect(cfg.RateLimitEnabled).To(BeTrue())
	Expect(cfg.RateLimitConfigs).To(HaveKey("/api/todos"))
	Expect(cfg.SessionTTL).To(Equal(24 * time.Hour))
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	RegisterTestingT(t)

	cfg, err := Load("/does/not/exist.toml")

	Expect(err).To(BeNil())
	Expect(cfg.Port).To(Equal("8080"))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	RegisterTestingT(t)

	path := filepath.Join(t.TempDir(), "config.toml")

	content := `
port = "9090"
environment = "staging"
database_path = "staging.db"
session_ttl_minutes = 30
rate_limit_enabled = false
`

	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

	cfg, err := Load(path)

	Expect(err).To(BeNil())
	Expect(cfg.Port).To(Equal("9090"))
	Expect(cfg.Environment).To(Equal("staging"))
	Expect(cfg.DatabasePath).To(Equal("staging.db"))
	Expect(cfg.SessionTTL).To(Equal(30 * time.Minute))
	Expect(cfg.RateLimitEnabled).To(BeFalse())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	RegisterTestingT(t)

	t.Setenv("PORT", "7070")

	path := filepath.Join(t.TempDir(), "config.toml")
	Expect(os.WriteFile(path, []byte(`port = "9090"`), 0o644)).To(Succeed())

	cfg, err := Load(path)

	Expect(err).To(BeNil())
	Expect(cfg.Port).To(Equal("7070"))
}
