package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDataDirAndFilePathUseXDGDataHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if want := filepath.Join(tmp, "autotrans"); dir != want {
		t.Fatalf("DataDir() = %q, want %q", dir, want)
	}
	if want := filepath.Join(tmp, "autotrans", "auth.json"); FilePath() != want {
		t.Fatalf("FilePath() = %q, want %q", FilePath(), want)
	}
}

func TestDataDirFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", home)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if want := filepath.Join(home, ".local", "share", "autotrans"); dir != want {
		t.Fatalf("DataDir() = %q, want %q", dir, want)
	}
}

func TestSaveLoadRemoveLifecycle(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	if err := SetAPIKey("google", "apikey123456"); err != nil {
		t.Fatalf("SetAPIKey(google) error: %v", err)
	}
	if err := SetAPIKey("deepl", "other-key-0000"); err != nil {
		t.Fatalf("SetAPIKey(deepl) error: %v", err)
	}

	path := filepath.Join(tmp, "autotrans", "auth.json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat auth.json: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("auth.json mode = %o, want 600", info.Mode().Perm())
	}

	if got := GetAPIKey("google"); got != "apikey123456" {
		t.Fatalf("GetAPIKey(google) = %q", got)
	}
	if got := Load()["google"].Updated; got.IsZero() {
		t.Fatal("Updated timestamp not recorded")
	}
	if got := Providers(); !reflect.DeepEqual(got, []string{"deepl", "google"}) {
		t.Fatalf("Providers() = %q", got)
	}

	if err := Remove("google"); err != nil {
		t.Fatalf("Remove(google) error: %v", err)
	}
	if got := GetAPIKey("google"); got != "" {
		t.Fatalf("GetAPIKey after remove = %q, want empty", got)
	}
	if GetAPIKey("deepl") == "" {
		t.Fatal("deepl key should remain after removing google")
	}
	if err := Remove("missing-provider"); err != nil {
		t.Fatalf("Remove(missing) should be no-op, got: %v", err)
	}

	if err := RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("auth.json should be removed, stat err=%v", err)
	}
	if got := Load(); len(got) != 0 {
		t.Fatalf("Load() after RemoveAll should be empty, got=%#v", got)
	}
	if err := RemoveAll(); err != nil {
		t.Fatalf("second RemoveAll() error: %v", err)
	}
}

func TestSetAPIKeyRejectsEmpty(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	if err := SetAPIKey("google", ""); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestLoadInvalidJSONReturnsEmptyStore(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	path := filepath.Join(tmp, "autotrans", "auth.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not-json"), 0o600); err != nil {
		t.Fatalf("write invalid json: %v", err)
	}
	if got := Load(); len(got) != 0 {
		t.Fatalf("Load() with invalid json should be empty, got=%#v", got)
	}
}

func TestResolveAPIKeyOrder(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("AUTOTRANS_API_KEY", "")

	if key, src := ResolveAPIKey("google", ""); key != "" || src != SourceNone {
		t.Fatalf("empty lookup = %q, %q", key, src)
	}

	if err := SetAPIKey("google", "stored-key-1234"); err != nil {
		t.Fatal(err)
	}
	if key, src := ResolveAPIKey("google", ""); key != "stored-key-1234" || src != SourceStore {
		t.Fatalf("store lookup = %q, %q", key, src)
	}

	t.Setenv("AUTOTRANS_API_KEY", "env-key")
	if key, src := ResolveAPIKey("google", ""); key != "env-key" || src != SourceEnv {
		t.Fatalf("env lookup = %q, %q", key, src)
	}

	if key, src := ResolveAPIKey("google", "flag-key"); key != "flag-key" || src != SourceFlag {
		t.Fatalf("flag lookup = %q, %q", key, src)
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":             "****",
		"12345678":     "****",
		"abcdefghijkl": "abcd...ijkl",
	}
	for in, want := range tests {
		if got := MaskKey(in); got != want {
			t.Errorf("MaskKey(%q) = %q, want %q", in, got, want)
		}
	}
}
