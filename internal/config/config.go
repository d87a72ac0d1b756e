// Package config reads server settings from the environment.
//
// main loads an optional .env file (godotenv) before calling Load, so
// every value below can come from either source.
//
//	PORT              listen port                     (5175)
//	LOG_LEVEL         zerolog level                   (info)
//	DB_PATH           SQLite file                     (./data/app.db)
//	JWT_SECRET        HS256 signing key               (dev_secret_change_me)
//	JWT_EXPIRES_DAYS  token lifetime in days          (14)
//	COOKIE_NAME       auth cookie name                (wordsearch_token)
//	CLIENT_ORIGIN     CORS/websocket allowed origin   (http://localhost:5173)
//	APP_ENV           "production" enables Secure cookies
//	DAILY_SALT        HMAC salt for the daily pick    (local_dev_salt)
//	PRESETS_FILE      YAML preset catalogue           (embedded)
//	DEFAULT_PRESET    overrides the catalogue default
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Env            string
	DailySalt      string
	PresetsFile    string
	DefaultPreset  string
}

// Load builds a Config from the process environment.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "./data/app.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: getEnvInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "wordsearch_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Env:            getEnv("APP_ENV", "development"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		PresetsFile:    os.Getenv("PRESETS_FILE"),
		DefaultPreset:  os.Getenv("DEFAULT_PRESET"),
	}
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.Env == "production" }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
