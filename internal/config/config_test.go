package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 50, cfg.PointsPerReport)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("POINTS_PER_REPORT", "75")
	t.Setenv("CORS_ORIGINS", "https://a.example/, https://b.example ,")

	cfg := Load()

	assert.Equal(t, DriverMySQL, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 75, cfg.PointsPerReport)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestGetEnvDuration_IgnoresInvalid(t *testing.T) {
	t.Setenv("SOME_TTL", "soon")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_TTL", time.Minute))

	t.Setenv("SOME_TTL", "-5s")
	assert.Equal(t, time.Minute, getEnvDuration("SOME_TTL", time.Minute))
}
