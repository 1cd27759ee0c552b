package placeholder

import "strings"

// RepairBoundaryWhitespace keeps the leading and trailing newline profile of
// translated in line with source. A translation that gained a boundary
// newline gets a single space in front of (or after) it; one that lost a
// boundary newline gets it back. A string whose profile already matches is
// returned unchanged.
//
// Only gained newlines are compensated with a space. A lost newline is
// restored itself instead of being padded, so a catalog entry ending in
// "\n" keeps ending in "\n" as msgfmt --check requires.
func RepairBoundaryWhitespace(source, translated string) string {
	if translated == "" {
		return translated
	}

	srcLead := strings.HasPrefix(source, "\n")
	dstLead := strings.HasPrefix(translated, "\n")
	switch {
	case dstLead && !srcLead:
		translated = " " + translated
	case srcLead && !dstLead:
		translated = "\n" + translated
	}

	srcTrail := strings.HasSuffix(source, "\n")
	dstTrail := strings.HasSuffix(translated, "\n")
	switch {
	case dstTrail && !srcTrail:
		translated += " "
	case srcTrail && !dstTrail:
		translated += "\n"
	}
	return translated
}
