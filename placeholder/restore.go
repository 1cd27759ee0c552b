package placeholder

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

var braceSpan = regexp.MustCompile(`\{([^{}]*)\}`)

// hintPattern matches a type hint the provider may have padded, upcased or
// cut short.
const hintPattern = `[ \t]*~[ \t]*[sdSD]?[ \t]*~?`

// sentinelPattern matches the sentinel of any of names with blanks tolerated
// inside the underscores. Longer names are tried first so that "a_" wins over
// "a". It returns nil when names is empty.
func sentinelPattern(names []string, suffix string) *regexp.Regexp {
	if len(names) == 0 {
		return nil
	}
	uniq := slices.Clone(names)
	slices.SortFunc(uniq, func(a, b string) int { return len(b) - len(a) })
	uniq = slices.Compact(uniq)
	for i, n := range uniq {
		uniq[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`(?i)__[ \t]*(` + strings.Join(uniq, "|") + `)[ \t]*__` + suffix)
}

// namedPattern locates named sentinel spans in a translation: the sentinel
// of a source name with an optional, possibly damaged hint, or a sentinel
// whose identifier was translated but whose hint survived.
func namedPattern(names []string) *regexp.Regexp {
	known := sentinelPattern(names, `(?:`+hintPattern+`)?`)
	if known == nil {
		return nil
	}
	return regexp.MustCompile(known.String() + `|__[ \t]*[^\s_~][^\s~]*?[ \t]*__[ \t]*~[ \t]*[sdSD][ \t]*~`)
}

func namesOf(occs []Occurrence, kind Kind) []string {
	var names []string
	for _, o := range occs {
		if o.Kind == kind {
			names = append(names, o.Name)
		}
	}
	return names
}

// Restorer rebuilds valid placeholders in provider output. One Restorer
// serves a single direction; build a new one when the direction changes.
type Restorer struct {
	markers   Markers
	artifacts []Replacement
	logger    *slog.Logger
}

// NewRestorer returns a Restorer for m.Direction. The artifact rules of
// table that apply to that direction are resolved once here.
func NewRestorer(m Markers, table ArtifactTable, logger *slog.Logger) *Restorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Restorer{
		markers:   m,
		artifacts: table.Resolve(m.Direction),
		logger:    logger,
	}
}

// Direction returns the direction the restorer was built for.
func (r *Restorer) Direction() Direction { return r.markers.Direction }

// Restore turns the raw provider output for the original message into a
// translation with valid placeholders. The provider was sent
// Encode(original).
//
// Named placeholders are taken from Scan(original) in order and paired by
// position with the sentinel spans found in the translation, whatever text
// the provider left inside them. When the counts differ only the first
// min(len) pairs are restored and the rest is left as is. Text that merely
// looks like a sentinel (a literal __init__) is never rewritten. Problems
// are reported as warnings and logged; they never fail the call.
func (r *Restorer) Restore(original, translated string) (string, []Warning) {
	var warns []Warning
	occs := Scan(original)

	out, err := FixTranslation(original, translated)
	if err != nil {
		warns = append(warns, Warning{Kind: WarnFixFailed, Detail: err.Error()})
		out = translated
	}

	var w []Warning
	out, w = substituteMarkers(occs, out, r.markers)
	warns = append(warns, w...)

	out, w = restoreNamed(occs, out)
	warns = append(warns, w...)

	out, w = restoreBraces(occs, out)
	warns = append(warns, w...)

	out = applyArtifacts(out, r.artifacts)
	out = RepairBoundaryWhitespace(original, out)

	for _, w := range warns {
		r.logger.Warn("placeholder restoration",
			"direction", r.markers.Direction.String(),
			"kind", w.Kind.String(),
			"name", w.Name,
			"detail", w.Detail,
			"source", original,
		)
	}
	return out, warns
}

// substituteMarkers replaces the provider spelling of the marker phrases,
// then their canonical spelling, with %d and %s. No more replacements are
// made than the original has positional placeholders.
func substituteMarkers(occs []Occurrence, text string, m Markers) (string, []Warning) {
	var warns []Warning
	for _, mk := range []struct {
		kind                     Kind
		canonical, spelled, verb string
	}{
		{KindPositionalNumber, NumberMarker, m.Number, "%d"},
		{KindPositionalString, ItemMarker, m.Item, "%s"},
	} {
		want := countKind(occs, mk.kind)
		left := want
		if mk.spelled != "" && mk.spelled != mk.canonical {
			text, left = replaceN(text, mk.spelled, mk.verb, left)
		}
		text, left = replaceN(text, mk.canonical, mk.verb, left)

		excess := strings.Count(text, mk.canonical)
		if mk.spelled != "" && mk.spelled != mk.canonical {
			excess += strings.Count(text, mk.spelled)
		}
		if left > 0 || excess > 0 {
			warns = append(warns, Warning{
				Kind:   WarnCountMismatch,
				Name:   mk.verb,
				Detail: fmt.Sprintf("source has %d, translation has %d", want, want-left+excess),
			})
		}
	}
	return text, warns
}

func replaceN(s, old, replacement string, n int) (string, int) {
	if n <= 0 || old == "" {
		return s, n
	}
	found := strings.Count(s, old)
	if found > n {
		found = n
	}
	return strings.Replace(s, old, replacement, found), n - found
}

func countKind(occs []Occurrence, kind Kind) int {
	n := 0
	for _, o := range occs {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// restoreNamed rewrites the i-th named sentinel span of text into the i-th
// named placeholder of occs. The verb comes from the original placeholder;
// an occurrence without one is restored as a bare %(name) and reported.
func restoreNamed(occs []Occurrence, text string) (string, []Warning) {
	var src []Occurrence
	for _, o := range occs {
		if o.Kind == KindNamed {
			src = append(src, o)
		}
	}
	re := namedPattern(namesOf(src, KindNamed))
	if re == nil {
		return text, nil
	}
	spans := re.FindAllStringIndex(text, -1)

	var warns []Warning
	var b strings.Builder
	last := 0
	for i := 0; i < min(len(src), len(spans)); i++ {
		o := src[i]
		b.WriteString(text[last:spans[i][0]])
		b.WriteString("%(" + o.Name + ")")
		if o.Verb != 0 {
			b.WriteByte(o.Verb)
		} else {
			warns = append(warns, Warning{
				Kind:   WarnUnclassified,
				Name:   o.Name,
				Detail: "no type in source, restored without verb",
			})
		}
		last = spans[i][1]
	}
	b.WriteString(text[last:])

	if len(src) != len(spans) {
		warns = append(warns, Warning{
			Kind:   WarnCountMismatch,
			Detail: fmt.Sprintf("source has %d named placeholders, translation has %d", len(src), len(spans)),
		})
	}
	return b.String(), warns
}

func restoreBraces(occs []Occurrence, text string) (string, []Warning) {
	src := namesOf(occs, KindBraceNamed)
	if len(src) == 0 {
		return text, nil
	}
	spans := braceSpan.FindAllStringIndex(text, -1)

	var b strings.Builder
	last := 0
	for i := 0; i < min(len(src), len(spans)); i++ {
		b.WriteString(text[last:spans[i][0]])
		b.WriteString("{" + src[i] + "}")
		last = spans[i][1]
	}
	b.WriteString(text[last:])

	if len(src) != len(spans) {
		return b.String(), []Warning{{
			Kind:   WarnCountMismatch,
			Detail: fmt.Sprintf("source has %d brace placeholders, translation has %d", len(src), len(spans)),
		}}
	}
	return b.String(), nil
}
