// Package config loads the .autotrans.yaml project configuration.
//
// Settings are layered: built-in defaults, then .autotrans.yaml in the
// project root, then AUTOTRANS_* environment variables. Command-line
// flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/autotrans/langtag"
	"github.com/minios-linux/autotrans/placeholder"
)

// FileName is the project configuration file name.
const FileName = ".autotrans.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AUTOTRANS_"

// Defaults.
const (
	DefaultProvider   = "web"
	DefaultSourceLang = "en"
	DefaultLocaleDir  = "locale"
	DefaultDomain     = "messages"
)

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Config is the merged project configuration.
type Config struct {
	// Provider is the translation backend registry name.
	Provider string `yaml:"provider,omitempty" env:"PROVIDER"`
	// SourceLang is the language of the msgids, or "auto".
	SourceLang string `yaml:"source_lang,omitempty" env:"SOURCE_LANG"`
	// Languages lists target languages. Empty means every catalog found
	// under LocaleDir.
	Languages []string `yaml:"languages,omitempty" env:"LANGUAGES" envSeparator:","`
	// LocaleDir holds <lang>/LC_MESSAGES/<domain>.po catalogs.
	LocaleDir string `yaml:"locale_dir,omitempty" env:"LOCALE_DIR"`
	// Domain is the gettext domain (catalog file name without .po).
	Domain string `yaml:"domain,omitempty" env:"DOMAIN"`
	// Template is an optional POT file catalogs are synced with.
	Template string `yaml:"template,omitempty" env:"TEMPLATE"`
	// MaxSegments caps texts per provider request (0 = provider default).
	MaxSegments int `yaml:"max_segments,omitempty" env:"MAX_SEGMENTS"`
	// SetFuzzy flags machine translations as fuzzy.
	SetFuzzy bool `yaml:"set_fuzzy,omitempty" env:"SET_FUZZY"`
	// IncludeFuzzy retranslates fuzzy entries too.
	IncludeFuzzy bool `yaml:"include_fuzzy,omitempty" env:"INCLUDE_FUZZY"`
	// Artifacts adds provider artifact cleanups, keyed by direction
	// ("*", "*-fr", "en-fr").
	Artifacts placeholder.ArtifactTable `yaml:"artifacts,omitempty"`

	// root is the directory relative paths are resolved against.
	root string
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Provider:   DefaultProvider,
		SourceLang: DefaultSourceLang,
		LocaleDir:  DefaultLocaleDir,
		Domain:     DefaultDomain,
		root:       dir,
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load builds the configuration for the project in rootDir: defaults,
// then .autotrans.yaml if present, then the environment.
func Load(rootDir string) (*Config, error) {
	cfg := Default(rootDir)

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("reading %s* environment: %w", EnvPrefix, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks and normalises the configuration.
func (c *Config) Validate() error {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.SourceLang == "" {
		c.SourceLang = DefaultSourceLang
	}
	if c.Domain == "" {
		c.Domain = DefaultDomain
	}
	if c.LocaleDir == "" {
		c.LocaleDir = DefaultLocaleDir
	}
	if c.MaxSegments < 0 {
		return fmt.Errorf("max_segments must not be negative, got %d", c.MaxSegments)
	}
	if c.SourceLang != langtag.Auto {
		if _, err := langtag.Normalize(c.SourceLang); err != nil {
			return fmt.Errorf("source_lang: %w", err)
		}
	}

	langs := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, err := langtag.Normalize(l); err != nil {
			return fmt.Errorf("languages: %w", err)
		}
		if loc := langtag.Locale(l); !slices.Contains(langs, loc) {
			langs = append(langs, loc)
		}
	}
	c.Languages = langs
	return nil
}

// SetRoot changes the directory relative paths are resolved against.
func (c *Config) SetRoot(dir string) { c.root = dir }

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// AbsLocaleDir returns the locale directory resolved against the root.
func (c *Config) AbsLocaleDir() string { return c.abs(c.LocaleDir) }

// AbsTemplate returns the template path resolved against the root, or "".
func (c *Config) AbsTemplate() string { return c.abs(c.Template) }

// CatalogPath returns <locale_dir>/<lang>/LC_MESSAGES/<domain>.po.
func (c *Config) CatalogPath(lang string) string {
	return filepath.Join(c.AbsLocaleDir(), langtag.Locale(lang), "LC_MESSAGES", c.Domain+".po")
}

// TargetLanguages returns the configured languages, or the languages that
// have a catalog under the locale directory when none are configured.
func (c *Config) TargetLanguages() []string {
	if len(c.Languages) > 0 {
		return c.Languages
	}
	return c.detectLanguages()
}

// detectLanguages finds languages from <locale_dir>/<lang>/LC_MESSAGES/<domain>.po.
func (c *Config) detectLanguages() []string {
	entries, err := os.ReadDir(c.AbsLocaleDir())
	if err != nil {
		return nil
	}
	var langs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		lang := entry.Name()
		if _, err := langtag.Normalize(lang); err != nil {
			continue
		}
		if _, err := os.Stat(c.CatalogPath(lang)); err == nil {
			langs = append(langs, lang)
		}
	}
	slices.Sort(langs)
	return langs
}
