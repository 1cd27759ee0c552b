package placeholder

import "fmt"

// WarningKind classifies a restoration warning.
type WarningKind int

const (
	// WarnFixFailed means FixTranslation failed and the raw text was kept.
	WarnFixFailed WarningKind = iota + 1
	// WarnUnclassified means a named placeholder had no type hint in the
	// source and was restored without a verb.
	WarnUnclassified
	// WarnCountMismatch means source and translation had a different number
	// of sentinels of one family; the excess was ignored.
	WarnCountMismatch
	// WarnSignatureMismatch means the restored text does not carry the same
	// placeholders as the source.
	WarnSignatureMismatch
)

func (k WarningKind) String() string {
	switch k {
	case WarnFixFailed:
		return "fix-failed"
	case WarnUnclassified:
		return "unclassified"
	case WarnCountMismatch:
		return "count-mismatch"
	case WarnSignatureMismatch:
		return "signature-mismatch"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a soft restoration problem. The translation is still produced,
// possibly with an incomplete placeholder.
type Warning struct {
	Kind   WarningKind
	Name   string
	Detail string
}

func (w Warning) Error() string {
	if w.Name != "" {
		return fmt.Sprintf("restoration %s (%s): %s", w.Kind, w.Name, w.Detail)
	}
	return fmt.Sprintf("restoration %s: %s", w.Kind, w.Detail)
}
