// Package langtag normalises language codes, names languages and guesses
// the language of source strings.
//
// Codes are accepted in both gettext ("pt_BR") and BCP 47 ("pt-BR")
// spelling. Providers receive BCP 47; locale directories use gettext.
package langtag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the source language value that requests detection.
const Auto = "auto"

// ErrUndetected is returned when the detector is not confident enough.
var ErrUndetected = errors.New("source language could not be detected")

func parse(code string) (language.Tag, error) {
	code = strings.TrimSpace(code)
	if i := strings.IndexAny(code, ".@"); i >= 0 {
		code = code[:i]
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", code, err)
	}
	return tag, nil
}

// Normalize returns the canonical BCP 47 form of code ("pt_BR" → "pt-BR").
func Normalize(code string) (string, error) {
	tag, err := parse(code)
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

// Locale returns the gettext spelling of code ("pt-BR" → "pt_BR").
// Invalid codes are returned unchanged.
func Locale(code string) string {
	tag, err := parse(code)
	if err != nil {
		return code
	}
	return strings.ReplaceAll(tag.String(), "-", "_")
}

// Base returns the primary language subtag ("pt-BR" → "pt").
func Base(code string) string {
	tag, err := parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	return base.String()
}

// Same reports whether two codes name the same language tag.
func Same(a, b string) bool {
	ta, errA := parse(a)
	tb, errB := parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return ta == tb
}

// Name returns the English and native names of a language, e.g.
// ("German", "Deutsch"). Unknown codes yield the code itself.
func Name(code string) (english, native string) {
	tag, err := parse(code)
	if err != nil {
		return code, code
	}
	english = display.English.Tags().Name(tag)
	native = display.Self.Name(tag)
	if english == "" {
		english = code
	}
	if native == "" {
		native = english
	}
	return english, native
}

// Detect guesses the language of a set of source strings and returns its
// ISO 639-1 code.
func Detect(texts []string) (string, error) {
	sample := strings.Join(texts, "\n")
	if strings.TrimSpace(sample) == "" {
		return "", ErrUndetected
	}
	info := whatlanggo.Detect(sample)
	if !info.IsReliable() {
		return "", fmt.Errorf("%w (confidence %.2f)", ErrUndetected, info.Confidence)
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return "", fmt.Errorf("%w: %s has no two-letter code", ErrUndetected, info.Lang)
	}
	return code, nil
}
