package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Success - Defaults", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "")

		cfg := Load()
		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, ":8080", cfg.ServerAddr)
		assert.Equal(t, "disable", cfg.DBSSLMode)
		assert.False(t, cfg.IsProduction())
		assert.False(t, cfg.BootstrapAdmin.Enabled())
	})

	t.Run("Success - Environment overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "Root@Example.com")
		t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "password123")

		cfg := Load()
		assert.True(t, cfg.IsProduction())
		assert.True(t, cfg.BootstrapAdmin.Enabled())
		assert.Equal(t, "root@example.com", cfg.BootstrapAdmin.Email)
		assert.Equal(t, "ADM-001", cfg.BootstrapAdmin.AdminCode)
	})
}
