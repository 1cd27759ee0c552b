// Package settings stores autotrans user credentials.
//
// API keys live in the XDG data directory:
//
//	$XDG_DATA_HOME/autotrans/auth.json  (default: ~/.local/share/autotrans/auth.json)
//
// The file is a JSON object keyed by provider name and is written with
// 0600 permissions.
//
// Lookup order for API keys:
//  1. --api-key flag (highest priority)
//  2. AUTOTRANS_API_KEY environment variable
//  3. This credential store
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	dataDirName = "autotrans"
	fileName    = "auth.json"
)

// Info is the credential stored for one provider.
type Info struct {
	Key     string    `json:"key"`
	Updated time.Time `json:"updated,omitzero"`
}

// Store holds all provider credentials, keyed by provider name.
type Store map[string]*Info

// Source tells where a resolved API key came from.
type Source string

const (
	SourceNone  Source = ""
	SourceFlag  Source = "flag"
	SourceEnv   Source = "environment"
	SourceStore Source = "credential store"
)

type envKeys struct {
	APIKey string `env:"AUTOTRANS_API_KEY"`
}

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// DataDir returns the autotrans data directory, honouring $XDG_DATA_HOME.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store. A missing or unreadable file yields
// an empty store.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("securing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// API keys
// ---------------------------------------------------------------------------

// SetAPIKey stores an API key for a provider.
func SetAPIKey(provider, key string) error {
	if key == "" {
		return errors.New("empty API key")
	}
	store := Load()
	store[provider] = &Info{Key: key, Updated: time.Now().UTC()}
	return Save(store)
}

// GetAPIKey returns the stored API key for a provider, or "".
func GetAPIKey(provider string) string {
	if info := Load()[provider]; info != nil {
		return info.Key
	}
	return ""
}

// ResolveAPIKey returns the key to use for provider following the lookup
// order: flag, environment, store.
func ResolveAPIKey(provider, flagKey string) (string, Source) {
	if flagKey != "" {
		return flagKey, SourceFlag
	}
	var keys envKeys
	if err := env.Parse(&keys); err == nil && keys.APIKey != "" {
		return keys.APIKey, SourceEnv
	}
	if key := GetAPIKey(provider); key != "" {
		return key, SourceStore
	}
	return "", SourceNone
}

// Providers returns the provider names with stored credentials, sorted.
func Providers() []string {
	store := Load()
	names := make([]string, 0, len(store))
	for name := range store {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Remove deletes credentials for a provider. Removing a provider with no
// credentials is a no-op.
func Remove(provider string) error {
	store := Load()
	if _, ok := store[provider]; !ok {
		return nil
	}
	delete(store, provider)
	return Save(store)
}

// RemoveAll deletes the credential file.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// MaskKey returns a masked key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
