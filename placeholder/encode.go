package placeholder

import (
	"context"
	"fmt"
	"strings"
)

// Marker phrases that stand in for positional placeholders while a message
// is in flight. Double brackets are left alone by most engines.
const (
	NumberMarker = "[[xnum]]"
	ItemMarker   = "[[xstr]]"
)

// Direction is a (source, target) language pair.
type Direction struct {
	Source string
	Target string
}

func (d Direction) String() string { return d.Source + "-" + d.Target }

// Encode rewrites text into its translation-safe surrogate. Positional
// placeholders become marker phrases and named placeholders become
// underscore sentinels carrying a ~s~ or ~d~ type hint. Brace placeholders
// are sent as they are.
func Encode(text string) string {
	occs := Scan(text)
	if len(occs) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8*len(occs))
	last := 0
	for _, o := range occs {
		b.WriteString(text[last:o.Position])
		switch o.Kind {
		case KindPositionalString:
			b.WriteString(ItemMarker)
		case KindPositionalNumber:
			b.WriteString(NumberMarker)
		case KindNamed:
			b.WriteString(Sentinel(o.Name, o.Verb))
		default:
			b.WriteString(o.Raw)
		}
		last = o.End()
	}
	b.WriteString(text[last:])
	return b.String()
}

// Sentinel returns the encoded spelling of a named placeholder.
func Sentinel(name string, verb byte) string {
	s := "__" + name + "__"
	if verb != 0 {
		s += "~" + string(verb) + "~"
	}
	return s
}

// Markers holds one provider's translated spelling of the marker phrases
// for a single direction.
type Markers struct {
	Direction Direction
	Number    string
	Item      string
}

// CanonicalMarkers returns markers assuming the provider leaves the marker
// phrases untouched.
func CanonicalMarkers(dir Direction) Markers {
	return Markers{Direction: dir, Number: NumberMarker, Item: ItemMarker}
}

// TranslateFunc translates a single string in a fixed direction.
type TranslateFunc func(ctx context.Context, text string) (string, error)

// BuildMarkers asks the provider how it spells each marker phrase in dir.
// It is meant to run once per direction; the result is reused for every
// message of the run. An empty answer falls back to the canonical phrase.
func BuildMarkers(ctx context.Context, dir Direction, translate TranslateFunc) (Markers, error) {
	m := CanonicalMarkers(dir)

	number, err := translate(ctx, NumberMarker)
	if err != nil {
		return m, fmt.Errorf("translating number marker: %w", err)
	}
	item, err := translate(ctx, ItemMarker)
	if err != nil {
		return m, fmt.Errorf("translating item marker: %w", err)
	}

	if s := strings.TrimSpace(number); s != "" {
		m.Number = s
	}
	if s := strings.TrimSpace(item); s != "" {
		m.Item = s
	}
	return m, nil
}
