package langtag

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeAndLocale(t *testing.T) {
	tests := []struct {
		in     string
		norm   string
		locale string
		base   string
	}{
		{"pt_BR", "pt-BR", "pt_BR", "pt"},
		{"pt-br", "pt-BR", "pt_BR", "pt"},
		{"ru_RU.UTF-8", "ru-RU", "ru_RU", "ru"},
		{"sr@latin", "sr", "sr", "sr"},
		{"de", "de", "de", "de"},
		{" fr ", "fr", "fr", "fr"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize error: %v", err)
			}
			if got != tt.norm {
				t.Fatalf("Normalize = %q, want %q", got, tt.norm)
			}
			if got := Locale(tt.in); got != tt.locale {
				t.Fatalf("Locale = %q, want %q", got, tt.locale)
			}
			if got := Base(tt.in); got != tt.base {
				t.Fatalf("Base = %q, want %q", got, tt.base)
			}
		})
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not a language", "12"} {
		if _, err := Normalize(in); err == nil {
			t.Errorf("Normalize(%q) should fail", in)
		}
	}
	if got := Locale("!!"); got != "!!" {
		t.Fatalf("Locale passthrough = %q", got)
	}
}

func TestSame(t *testing.T) {
	if !Same("EN", "en") || !Same("pt_BR", "pt-br") {
		t.Fatal("expected equal tags")
	}
	if Same("pt", "pt-BR") || Same("en", "fr") {
		t.Fatal("expected different tags")
	}
}

func TestName(t *testing.T) {
	english, native := Name("de")
	if english != "German" || native != "Deutsch" {
		t.Fatalf("Name(de) = %q, %q", english, native)
	}
	english, native = Name("??")
	if english != "??" || native != "??" {
		t.Fatalf("Name(??) = %q, %q", english, native)
	}
}

func TestDetect(t *testing.T) {
	got, err := Detect([]string{
		"The quick brown fox jumps over the lazy dog.",
		"Please select the files you want to open and press the button.",
		"Your changes have been saved successfully.",
	})
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if got != "en" {
		t.Fatalf("Detect = %q, want en", got)
	}

	_, err = Detect([]string{"", "  "})
	if !errors.Is(err, ErrUndetected) {
		t.Fatalf("empty input error = %v", err)
	}

	_, err = Detect([]string{strings.Repeat("%s ", 3)})
	if !errors.Is(err, ErrUndetected) {
		t.Fatalf("placeholder-only input error = %v", err)
	}
}
