// Package translate drives batches of localization messages through a
// machine-translation provider while keeping their format placeholders
// intact.
//
// Providers implement the small Provider interface. Optional capabilities
// (placeholder restoration, per-run preparation, a segment ceiling) are
// discovered by type assertion, the way io.WriterTo is.
package translate

import (
	"context"

	"github.com/minios-linux/autotrans/placeholder"
)

// DefaultSourceLanguage is used when a caller leaves the source empty.
const DefaultSourceLanguage = "en"

// Direction is a (source, target) language pair.
type Direction = placeholder.Direction

// Provider is a machine-translation backend.
type Provider interface {
	// TranslateString translates a single string.
	TranslateString(ctx context.Context, text, target, source string) (string, error)
	// TranslateStrings translates texts and returns results in input order.
	// optimized asks for a lazily produced result; providers that can only
	// return a materialised slice must reject it with ErrOptimizedUnsupported
	// or ignore it, as documented on the implementation.
	TranslateStrings(ctx context.Context, texts []string, target, source string, optimized bool) ([]string, error)
}

// Restoring is implemented by providers that restore placeholders in their
// own output. Such providers are fed original messages one at a time and
// run them through placeholder.Encode and a placeholder.Restorer.
type Restoring interface {
	RestoresPlaceholders() bool
}

// Preparer is implemented by providers needing one-off work per run and
// direction, such as learning how they spell sentinel markers.
type Preparer interface {
	Prepare(ctx context.Context, dir Direction) error
}

// Limited is implemented by providers that cap the number of segments in a
// single batch call.
type Limited interface {
	MaxSegments() int
}

func restores(p Provider) bool {
	r, ok := p.(Restoring)
	return ok && r.RestoresPlaceholders()
}

func maxSegments(p Provider) int {
	if l, ok := p.(Limited); ok {
		return l.MaxSegments()
	}
	return 0
}
