package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "JWT_EXPIRES_DAYS", "APP_ENV", "PRESETS_FILE"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 14, c.JWTExpiresDays)
	assert.Equal(t, "", c.PresetsFile)
	assert.False(t, c.Production())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRES_DAYS", "3")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DEFAULT_PRESET", "sopa-de-letras")

	c := Load()
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, 3, c.JWTExpiresDays)
	assert.True(t, c.Production())
	assert.Equal(t, "sopa-de-letras", c.DefaultPreset)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	assert.Equal(t, 14, Load().JWTExpiresDays)
}
