package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/autotrans/placeholder"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PROVIDER", "SOURCE_LANG", "LANGUAGES", "LOCALE_DIR", "DOMAIN", "TEMPLATE", "MAX_SEGMENTS", "SET_FUZZY", "INCLUDE_FUZZY"} {
		t.Setenv(EnvPrefix+name, "")
		os.Unsetenv(EnvPrefix + name)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Provider != DefaultProvider || cfg.SourceLang != DefaultSourceLang || cfg.Domain != DefaultDomain {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if got, want := cfg.AbsLocaleDir(), filepath.Join(dir, "locale"); got != want {
		t.Fatalf("AbsLocaleDir = %q, want %q", got, want)
	}
	if cfg.AbsTemplate() != "" {
		t.Fatalf("AbsTemplate = %q, want empty", cfg.AbsTemplate())
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `provider: google
source_lang: en
languages: [de, pt-BR, pt_BR]
locale_dir: po
domain: app
template: po/app.pot
max_segments: 64
set_fuzzy: true
artifacts:
  "*-de":
    - pattern: "% s"
      replacement: "%s"
`)

	t.Setenv("AUTOTRANS_PROVIDER", "web")
	t.Setenv("AUTOTRANS_MAX_SEGMENTS", "32")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Provider != "web" {
		t.Fatalf("Provider = %q, env should win", cfg.Provider)
	}
	if cfg.MaxSegments != 32 {
		t.Fatalf("MaxSegments = %d, env should win", cfg.MaxSegments)
	}
	if cfg.Domain != "app" || !cfg.SetFuzzy || cfg.IncludeFuzzy {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if want := []string{"de", "pt_BR"}; !reflect.DeepEqual(cfg.Languages, want) {
		t.Fatalf("Languages = %q, want %q", cfg.Languages, want)
	}
	if got, want := cfg.AbsTemplate(), filepath.Join(dir, "po", "app.pot"); got != want {
		t.Fatalf("AbsTemplate = %q, want %q", got, want)
	}
	want := []placeholder.Replacement{{Pattern: "% s", Replacement: "%s"}}
	if got := cfg.Artifacts["*-de"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("Artifacts = %#v", cfg.Artifacts)
	}
}

func TestEnvironmentLanguagesList(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTOTRANS_LANGUAGES", "fr,de, ,ru")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if want := []string{"fr", "de", "ru"}; !reflect.DeepEqual(cfg.Languages, want) {
		t.Fatalf("Languages = %q, want %q", cfg.Languages, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad yaml", file: "provider: [", wantErr: "parsing"},
		{name: "negative segments", file: "max_segments: -1", wantErr: "max_segments"},
		{name: "bad language", file: "languages: [\"not a language\"]", wantErr: "languages"},
		{name: "bad source", file: "source_lang: \"??\"", wantErr: "source_lang"},
		{name: "bad env int", env: map[string]string{"AUTOTRANS_MAX_SEGMENTS": "lots"}, wantErr: "environment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, FileName), tt.file)
			}
			_, err := Load(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSourceLangAutoAccepted(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTOTRANS_SOURCE_LANG", "auto")
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SourceLang != "auto" {
		t.Fatalf("SourceLang = %q", cfg.SourceLang)
	}
}

func TestCatalogPathAndDetectedLanguages(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir)
	cfg.Domain = "app"

	if got, want := cfg.CatalogPath("pt-BR"), filepath.Join(dir, "locale", "pt_BR", "LC_MESSAGES", "app.po"); got != want {
		t.Fatalf("CatalogPath = %q, want %q", got, want)
	}

	for _, lang := range []string{"ru", "de", "pt_BR"} {
		writeFile(t, cfg.CatalogPath(lang), "")
	}
	writeFile(t, filepath.Join(dir, "locale", "fr", "LC_MESSAGES", "other.po"), "")
	writeFile(t, filepath.Join(dir, "locale", "README"), "")

	if got, want := cfg.TargetLanguages(), []string{"de", "pt_BR", "ru"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("TargetLanguages = %q, want %q", got, want)
	}

	cfg.Languages = []string{"uk"}
	if got := cfg.TargetLanguages(); !reflect.DeepEqual(got, []string{"uk"}) {
		t.Fatalf("configured languages ignored: %q", got)
	}
}
