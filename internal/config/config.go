// Package config resolves the API token and default space id from the
// environment with a fallback to persisted settings. The precedence is a
// fixed ladder of lookups tried in order, first match wins.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings keys in the persistent store.
const (
	SettingAPIToken       = "api_token"
	SettingDefaultSpaceID = "default_space_id"
)

// Environment variable names accepted for each setting, in precedence order.
// The launcher exposes user configuration as environment variables, so these
// come before persisted settings.
var (
	tokenEnvVars   = []string{"api_token", "API_TOKEN", "capacities_api_token"}
	spaceIDEnvVars = []string{"default_space_id", "DEFAULT_SPACE_ID"}
)

// SettingsStore is the persisted-settings side of the ladder. Satisfied by
// *kvstore.Store.
type SettingsStore interface {
	Get(key string, maxAge time.Duration, v any) (bool, error)
}

// Resolver resolves configuration values. A nil store skips the persisted
// fallback, leaving environment variables as the only source.
type Resolver struct {
	store SettingsStore
}

// NewResolver creates a Resolver backed by the given settings store.
func NewResolver(store SettingsStore) *Resolver {
	return &Resolver{store: store}
}

// APIToken returns the Capacities API token, or "" if none is configured.
func (r *Resolver) APIToken() string {
	return r.resolve(tokenEnvVars, SettingAPIToken)
}

// DefaultSpaceID returns the configured default space id, or "" if none.
func (r *Resolver) DefaultSpaceID() string {
	return r.resolve(spaceIDEnvVars, SettingDefaultSpaceID)
}

// resolve runs the ladder: each environment name in order, then the store.
func (r *Resolver) resolve(envNames []string, settingKey string) string {
	lookups := make([]func() string, 0, len(envNames)+1)
	for _, name := range envNames {
		name := name
		lookups = append(lookups, func() string { return os.Getenv(name) })
	}
	lookups = append(lookups, func() string { return r.fromStore(settingKey) })

	for _, lookup := range lookups {
		if v := strings.TrimSpace(lookup()); v != "" {
			return v
		}
	}
	return ""
}

func (r *Resolver) fromStore(key string) string {
	if r.store == nil {
		return ""
	}
	var v string
	ok, err := r.store.Get(key, 0, &v)
	if err != nil || !ok {
		return ""
	}
	return v
}

// LoadEnvFile loads a .env file into the environment (best-effort) so that
// launcher-managed variables reach the resolution ladder. The current
// directory is tried first, then baseDir.
func LoadEnvFile(baseDir string) {
	paths := []string{".env"}
	if baseDir != "" {
		paths = append(paths, filepath.Join(baseDir, ".env"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			// Load does not override variables already set
			_ = godotenv.Load(path)
			return
		}
	}
}
