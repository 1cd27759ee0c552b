package placeholder

import "strings"

// Replacement is a literal substitution applied to restored translations.
type Replacement struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// ArtifactTable holds literal fixes for corruption patterns observed with
// particular directions. Keys are "*" (every direction), "*-<target>" or
// "<source>-<target>".
type ArtifactTable map[string][]Replacement

// DefaultArtifacts returns the built-in fixes.
func DefaultArtifacts() ArtifactTable {
	return ArtifactTable{
		// French output tends to glue an underscore before the verb.
		"*-fr": {
			{Pattern: ")_s", Replacement: ")s"},
			{Pattern: ")_d", Replacement: ")d"},
		},
	}
}

// Merge returns a new table with the rules of other appended to t.
func (t ArtifactTable) Merge(other ArtifactTable) ArtifactTable {
	out := make(ArtifactTable, len(t)+len(other))
	for k, v := range t {
		out[k] = append([]Replacement(nil), v...)
	}
	for k, v := range other {
		out[k] = append(out[k], v...)
	}
	return out
}

// Resolve returns the rules applying to dir, most generic first.
func (t ArtifactTable) Resolve(dir Direction) []Replacement {
	var rules []Replacement
	for _, key := range []string{"*", "*-" + dir.Target, dir.String()} {
		rules = append(rules, t[key]...)
	}
	return rules
}

// applyArtifacts runs rules over s in order.
func applyArtifacts(s string, rules []Replacement) string {
	for _, r := range rules {
		if r.Pattern == "" {
			continue
		}
		s = strings.ReplaceAll(s, r.Pattern, r.Replacement)
	}
	return s
}
