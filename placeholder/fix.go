package placeholder

import (
	"errors"
	"html"
	"regexp"
	"strings"
)

// ErrFixOutOfRange is returned by FixTranslation when the translation is
// too short to be compared with its source.
var ErrFixOutOfRange = errors.New("fix translation: index out of range")

var (
	markerSpacing = regexp.MustCompile(`(?i)\[\[\s*(xnum|xstr)\s*\]\]`)
	hintSpacing   = regexp.MustCompile(`~[ \t]*([sdSD])[ \t]*~`)
)

// FixTranslation applies cheap local corrections to the raw provider answer
// for the original message source. HTML entities are decoded and single
// leading or trailing blanks of the source are carried over. Blanks the
// provider inserted inside markers, type hints and the sentinels of the
// source's own named placeholders are removed; other text is left alone.
func FixTranslation(source, translated string) (string, error) {
	if translated == "" {
		if source == "" {
			return "", nil
		}
		return "", ErrFixOutOfRange
	}

	occs := Scan(source)
	out := html.UnescapeString(translated)
	if countKind(occs, KindPositionalNumber)+countKind(occs, KindPositionalString) > 0 {
		out = markerSpacing.ReplaceAllStringFunc(out, func(m string) string {
			inner := strings.TrimSpace(m[2 : len(m)-2])
			return "[[" + strings.ToLower(inner) + "]]"
		})
	}
	if re := sentinelPattern(namesOf(occs, KindNamed), ""); re != nil {
		out = re.ReplaceAllString(out, "__${1}__")
		out = hintSpacing.ReplaceAllStringFunc(out, func(m string) string {
			return "~" + strings.ToLower(strings.Trim(m, "~ \t")) + "~"
		})
	}

	if out == "" || source == "" {
		return out, nil
	}
	if source[0] == ' ' && out[0] != ' ' {
		out = " " + out
	}
	if source[len(source)-1] == ' ' && out[len(out)-1] != ' ' {
		out += " "
	}
	return out, nil
}
