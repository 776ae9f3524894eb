// Package config loads server settings from the environment.
//
// A .env file in the working directory is read first (if present), then
// viper resolves each key from the environment with the defaults below.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is passed explicitly to everything that needs settings.
type Config struct {
	Port           string
	LogLevel       string
	LogPretty      bool
	Production     bool
	DictionaryFile string
	PresetsFile    string
	DefaultPreset  string
	DBPath         string
	ClientOrigin   string
	JWTSecret      string
	JWTExpiry      time.Duration
	CookieName     string
	DailySalt      string
	SessionTTL     time.Duration
	SweepInterval  time.Duration
}

var defaults = map[string]any{
	"PORT":             "5175",
	"LOG_LEVEL":        "info",
	"LOG_PRETTY":       false,
	"APP_ENV":          "development",
	"DICTIONARY_FILE":  "",
	"PRESETS_FILE":     "",
	"DEFAULT_PRESET":   "cat-dog",
	"DB_PATH":          "",
	"CLIENT_ORIGIN":    "http://localhost:5173",
	"JWT_SECRET":       "dev_secret_change_me",
	"JWT_EXPIRES_DAYS": 14,
	"COOKIE_NAME":      "wordsquare_token",
	"DAILY_SALT":       "local_dev_salt",
	"SESSION_TTL":      "2h",
	"SWEEP_INTERVAL":   "5m",
}

// Load reads .env files (missing ones are fine) and the environment.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	days := v.GetInt("JWT_EXPIRES_DAYS")
	if days <= 0 {
		days = 14
	}
	return Config{
		Port:           v.GetString("PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogPretty:      v.GetBool("LOG_PRETTY"),
		Production:     v.GetString("APP_ENV") == "production",
		DictionaryFile: v.GetString("DICTIONARY_FILE"),
		PresetsFile:    v.GetString("PRESETS_FILE"),
		DefaultPreset:  v.GetString("DEFAULT_PRESET"),
		DBPath:         v.GetString("DB_PATH"),
		ClientOrigin:   v.GetString("CLIENT_ORIGIN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpiry:      time.Duration(days) * 24 * time.Hour,
		CookieName:     v.GetString("COOKIE_NAME"),
		DailySalt:      v.GetString("DAILY_SALT"),
		SessionTTL:     positive(v.GetDuration("SESSION_TTL"), 2*time.Hour),
		SweepInterval:  positive(v.GetDuration("SWEEP_INTERVAL"), 5*time.Minute),
	}
}

func positive(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
