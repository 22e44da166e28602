// Package env loads test-run settings from .env files and the
// process environment. Process environment values always win over
// file values.
package env

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Loader defines the interface for environment variable management.
type Loader interface {
	// Load merges variables from a .env file.
	Load(path string) error
	// Get retrieves a variable, or "" when unset.
	Get(key string) string
	// GetRequired retrieves a required variable or returns error.
	GetRequired(key string) (string, error)
	// GetWithDefault retrieves a variable with a default fallback.
	GetWithDefault(key, defaultValue string) string
	// Set sets a variable in the loader and the process environment.
	Set(key, value string) error
	// All returns all file-loaded and explicitly set variables.
	All() map[string]string
}

// DefaultLoader implements Loader on top of viper's dotenv reader
// with automatic environment lookup.
type DefaultLoader struct {
	mu     sync.RWMutex
	v      *viper.Viper
	loaded []string
}

// NewLoader creates a DefaultLoader with no files loaded.
func NewLoader() *DefaultLoader {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()
	return &DefaultLoader{v: v}
}

// Load merges the variables in path. Later files override earlier
// ones; the process environment still takes precedence.
func (l *DefaultLoader) Load(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.v.SetConfigFile(path)
	if err := l.v.MergeInConfig(); err != nil {
		return fmt.Errorf("open env file %s: %w", path, err)
	}
	l.loaded = append(l.loaded, path)
	return nil
}

// Loaded returns the files merged so far, in order.
func (l *DefaultLoader) Loaded() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.loaded...)
}

func (l *DefaultLoader) Get(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v.GetString(key)
}

func (l *DefaultLoader) GetRequired(key string) (string, error) {
	v := l.Get(key)
	if v == "" {
		return "", fmt.Errorf(
			"required environment variable %s is not set", key,
		)
	}
	return v, nil
}

func (l *DefaultLoader) GetWithDefault(key, defaultValue string) string {
	if v := l.Get(key); v != "" {
		return v
	}
	return defaultValue
}

func (l *DefaultLoader) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.v.Set(key, value)
	return os.Setenv(key, value)
}

// All returns upper-cased keys with their resolved values.
func (l *DefaultLoader) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := l.v.AllKeys()
	result := make(map[string]string, len(keys))
	for _, k := range keys {
		result[strings.ToUpper(k)] = l.v.GetString(k)
	}
	return result
}

// MapLoader is a Loader over a fixed map, useful where no file or
// process environment should leak in.
type MapLoader map[string]string

func (m MapLoader) Load(path string) error {
	return fmt.Errorf("open env file %s: map loader cannot read files", path)
}

func (m MapLoader) Get(key string) string { return m[key] }

func (m MapLoader) GetRequired(key string) (string, error) {
	if v := m[key]; v != "" {
		return v, nil
	}
	return "", fmt.Errorf(
		"required environment variable %s is not set", key,
	)
}

func (m MapLoader) GetWithDefault(key, defaultValue string) string {
	if v := m[key]; v != "" {
		return v
	}
	return defaultValue
}

func (m MapLoader) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m MapLoader) All() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
