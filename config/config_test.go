package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite::memory:")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("AUTH0_DOMAIN", "")
	t.Setenv("AWS_S3_BUCKET", "")
	t.Cleanup(func() { SetConfig(nil) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite::memory:", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.ArchiveEnabled())
	assert.Same(t, cfg, GetConfig())
	assert.Empty(t, cfg.EnvFile)
}

func TestLoadReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("JOBSHOP_DOTENV_PROBE=from-file\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "sqlite::memory:")
	t.Setenv("JOBSHOP_DOTENV_PROBE", "")
	os.Unsetenv("JOBSHOP_DOTENV_PROBE")
	t.Cleanup(func() { SetConfig(nil) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".env.test", cfg.EnvFile)
	assert.Equal(t, "from-file", os.Getenv("JOBSHOP_DOTENV_PROBE"))
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite::memory:")
	t.Cleanup(func() { SetConfig(nil) })

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.AllowAllOrigins())

	t.Setenv("CORS_ALLOWED_ORIGINS", "*")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.AllowAllOrigins())

	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")
	_, err = Load()
	assert.ErrorContains(t, err, "CORS_ALLOWED_ORIGINS")
}

func TestLoadRejectsBadRateLimit(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite::memory:")
	t.Setenv("RATE_LIMIT_RPS", "fast")

	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_RPS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{DatabaseURL: "x", RateLimitRPS: 1, RateLimitBurst: 1}, ""},
		{"missing database", Config{RateLimitRPS: 1, RateLimitBurst: 1}, "DATABASE_URL"},
		{"zero rate", Config{DatabaseURL: "x", RateLimitBurst: 1}, "RATE_LIMIT_RPS"},
		{"zero burst", Config{DatabaseURL: "x", RateLimitRPS: 1}, "RATE_LIMIT_BURST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFeatureToggles(t *testing.T) {
	cfg := Config{GoEnv: "production", Auth0Domain: "shop.auth0.com", Auth0Audience: "https://api.jobshop", AWSS3Bucket: "reports"}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.AuthEnabled())
	assert.True(t, cfg.ArchiveEnabled())

	cfg.Auth0Audience = ""
	assert.False(t, cfg.AuthEnabled())
}
