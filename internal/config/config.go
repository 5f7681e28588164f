package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Store backends.
const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Config holds all configuration for the admin server and tools.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	Env       string `mapstructure:"ENV"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseSecretsFile              string `mapstructure:"FIREBASE_SECRETS_FILE"`
	FirebaseServiceAccountKeyJSON    string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_JSON"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseServiceAccountKeyPath    string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseKeySearchPaths           string `mapstructure:"FIREBASE_KEY_SEARCH_PATHS"`

	StoreBackend    string        `mapstructure:"STORE_BACKEND"`
	CollectionsFile string        `mapstructure:"COLLECTIONS_FILE"`
	CacheListTTL    time.Duration `mapstructure:"CACHE_LIST_TTL"`
	CacheItemTTL    time.Duration `mapstructure:"CACHE_ITEM_TTL"`
	ProbeTopology   bool          `mapstructure:"PROBE_TOPOLOGY"`

	LangDir    string `mapstructure:"LANG_DIR"`
	AdminActor string `mapstructure:"ADMIN_ACTOR"`
	// DisplayTimezone is the IANA zone for stored times written without an offset.
	DisplayTimezone string `mapstructure:"DISPLAY_TZ"`
}

var defaults = map[string]any{
	"PORT":                                 "8080",
	"GIN_MODE":                             "debug",
	"ENV":                                  "development",
	"CLIENT_URL":                           "",
	"FIREBASE_PROJECT_ID":                  "",
	"FIREBASE_SECRETS_FILE":                ".streamlit/secrets.toml",
	"FIREBASE_SERVICE_ACCOUNT_KEY_JSON":    "",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64": "",
	"FIREBASE_SERVICE_ACCOUNT_KEY_PATH":    "",
	"FIREBASE_KEY_SEARCH_PATHS":            "serviceAccountKey.json,../ai_curator_hub_db/serviceAccountKey.json,../serviceAccountKey.json",
	"STORE_BACKEND":                        BackendFirestore,
	"COLLECTIONS_FILE":                     "configs/collections.yaml",
	"CACHE_LIST_TTL":                       "300s",
	"CACHE_ITEM_TTL":                       "60s",
	"PROBE_TOPOLOGY":                       true,
	"LANG_DIR":                             "public/lang",
	"ADMIN_ACTOR":                          "admin",
	"DISPLAY_TZ":                           "UTC",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no safe fallback.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFirestore, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFirestore, BackendMemory, c.StoreBackend)
	}
	if c.CacheListTTL <= 0 || c.CacheItemTTL <= 0 {
		return errors.New("CACHE_LIST_TTL and CACHE_ITEM_TTL must be positive")
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		return fmt.Errorf("DISPLAY_TZ: %w", err)
	}
	return nil
}

// Location returns the display time zone, UTC when unset or unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// KeySearchPaths returns the candidate service-account key files in priority order.
func (c *Config) KeySearchPaths() []string {
	var paths []string
	for _, p := range strings.Split(c.FirebaseKeySearchPaths, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// NewLogger builds the zap logger matching the environment.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg != nil && cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
