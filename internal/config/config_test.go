package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8531", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	assert.True(t, cfg.CORS.AllowCredentials)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_HOST", "db.internal")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestDSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host: "localhost", Port: "5432", User: "docflow",
		Password: "pw", Name: "docflow", SSLMode: "disable",
	}.DSN()
	assert.Equal(t, "host=localhost port=5432 user=docflow password=pw dbname=docflow sslmode=disable", dsn)
}

func TestGenerateJWTSecret(t *testing.T) {
	a := GenerateJWTSecret()
	b := GenerateJWTSecret()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
