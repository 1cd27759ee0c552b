// Package placeholder finds, encodes and restores format placeholders in
// localization messages so that they survive machine translation.
//
// Three placeholder families are recognised:
//
//	%s, %d                 positional (printf style)
//	%(name)s, %(name)d     named (Python mapping style)
//	{name}                 brace (str.format style)
//
// A message is first rewritten by Encode into a surrogate whose placeholders
// are spelled as translation-resistant sentinels. After the provider has
// translated the surrogate, a Restorer takes the original message and the
// provider output and turns whatever sentinel remnants survived back into
// the original's placeholders, in the order Scan found them.
package placeholder

import (
	"fmt"
	"regexp"
	"sort"
)

// Kind classifies a placeholder occurrence.
type Kind int

const (
	KindPositionalString Kind = iota + 1 // %s
	KindPositionalNumber                 // %d
	KindNamed                            // %(name)s, %(name)d
	KindBraceNamed                       // {name}
)

func (k Kind) String() string {
	switch k {
	case KindPositionalString:
		return "positional-string"
	case KindPositionalNumber:
		return "positional-number"
	case KindNamed:
		return "named"
	case KindBraceNamed:
		return "brace-named"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Occurrence is one placeholder found in a message.
type Occurrence struct {
	Kind Kind
	// Name is the identifier of named and brace placeholders, empty otherwise.
	Name string
	// Verb is 's' or 'd' for positional and named placeholders, 0 for braces.
	Verb byte
	// Position is the byte offset of the placeholder in the scanned text.
	Position int
	// Raw is the placeholder exactly as it appears in the text.
	Raw string
}

// End returns the byte offset just past the placeholder.
func (o Occurrence) End() int { return o.Position + len(o.Raw) }

// Key identifies the placeholder by kind, name and verb, ignoring position.
func (o Occurrence) Key() string {
	switch o.Kind {
	case KindNamed:
		return "%(" + o.Name + ")" + string(o.Verb)
	case KindBraceNamed:
		return "{" + o.Name + "}"
	default:
		return "%" + string(o.Verb)
	}
}

// %% must be matched first so that "%%s" is a literal percent followed by "s".
var placeholderPattern = regexp.MustCompile(`%%|%\((\w+)\)([sd])|%([sd])|\{(\w+)\}`)

// Scan returns the placeholders of text in left-to-right order.
func Scan(text string) []Occurrence {
	var occs []Occurrence
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		occ := Occurrence{Position: m[0], Raw: raw}
		switch {
		case raw == "%%":
			continue
		case m[2] >= 0:
			occ.Kind = KindNamed
			occ.Name = text[m[2]:m[3]]
			occ.Verb = text[m[4]]
		case m[6] >= 0:
			occ.Verb = text[m[6]]
			occ.Kind = KindPositionalString
			if occ.Verb == 'd' {
				occ.Kind = KindPositionalNumber
			}
		case m[8] >= 0:
			occ.Kind = KindBraceNamed
			occ.Name = text[m[8]:m[9]]
		}
		occs = append(occs, occ)
	}
	return occs
}

// Signature returns the sorted placeholder keys of occs. Two messages with
// equal signatures carry the same multiset of placeholders.
func Signature(occs []Occurrence) []string {
	keys := make([]string, 0, len(occs))
	for _, o := range occs {
		keys = append(keys, o.Key())
	}
	sort.Strings(keys)
	return keys
}

// Compare checks that restored carries the same placeholders as source.
// It returns nil when the multisets match and a WarnSignatureMismatch
// warning otherwise. Nothing is corrected.
func Compare(source, restored string) *Warning {
	want := Signature(Scan(source))
	got := Signature(Scan(restored))
	if equalKeys(want, got) {
		return nil
	}
	return &Warning{
		Kind:   WarnSignatureMismatch,
		Detail: fmt.Sprintf("source has %v, translation has %v", want, got),
	}
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
