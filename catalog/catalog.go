// Package catalog reads, writes and merges gettext PO/POT catalogs.
//
// A Catalog keeps the header entry apart from the messages. Obsolete
// ("#~") entries are preserved and written back at their original
// position, but they are never offered for translation.
package catalog

import (
	"strconv"
	"strings"
	"time"
)

// Catalog is a parsed PO or POT file.
type Catalog struct {
	// Header is the msgid "" entry.
	Header   *Entry
	Messages []*Entry
}

// New returns an empty catalog with an empty header.
func New() *Catalog {
	return &Catalog{Header: &Entry{}}
}

// Selection picks which messages Pending returns.
type Selection int

const (
	// SelectUntranslated picks messages with no translation, skipping fuzzy ones.
	SelectUntranslated Selection = iota
	// SelectIncludeFuzzy also picks fuzzy messages.
	SelectIncludeFuzzy
	// SelectAll picks every live message.
	SelectAll
)

// Pending returns the live messages selected by sel, in file order.
func (c *Catalog) Pending(sel Selection) []*Entry {
	var out []*Entry
	for _, e := range c.live() {
		switch {
		case sel == SelectAll:
		case e.IsFuzzy():
			if sel != SelectIncludeFuzzy {
				continue
			}
		case e.IsTranslated():
			continue
		}
		out = append(out, e)
	}
	return out
}

// Stats counts live messages.
type Stats struct {
	Total        int
	Translated   int
	Fuzzy        int
	Untranslated int
}

// Percent returns the translated share, 0..100.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 100
	}
	return s.Translated * 100 / s.Total
}

// Stats returns translation statistics.
func (c *Catalog) Stats() Stats {
	var s Stats
	for _, e := range c.live() {
		s.Total++
		switch {
		case e.IsFuzzy():
			s.Fuzzy++
		case e.IsTranslated():
			s.Translated++
		default:
			s.Untranslated++
		}
	}
	return s
}

// Lookup finds a live message by context and msgid.
func (c *Catalog) Lookup(msgctxt, msgid string) *Entry {
	want := (&Entry{MsgCtxt: msgctxt, MsgID: msgid}).key()
	for _, e := range c.live() {
		if e.key() == want {
			return e
		}
	}
	return nil
}

func (c *Catalog) live() []*Entry {
	out := make([]*Entry, 0, len(c.Messages))
	for _, e := range c.Messages {
		if e.MsgID != "" && !e.Obsolete {
			out = append(out, e)
		}
	}
	return out
}

// --- Header ---

// HeaderField returns the value of a header field, matched case-insensitively.
func (c *Catalog) HeaderField(name string) string {
	if c.Header == nil {
		return ""
	}
	for _, line := range strings.Split(c.Header.MsgStr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// SetHeaderField replaces a header field or appends it.
func (c *Catalog) SetHeaderField(name, value string) {
	if c.Header == nil {
		c.Header = &Entry{}
	}
	field := name + ": " + value

	var lines []string
	if c.Header.MsgStr != "" {
		lines = strings.Split(strings.TrimSuffix(c.Header.MsgStr, "\n"), "\n")
	}
	replaced := false
	for i, line := range lines {
		key, _, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			lines[i] = field
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, field)
	}
	c.Header.MsgStr = strings.Join(lines, "\n") + "\n"
}

// Language returns the Language header.
func (c *Catalog) Language() string { return c.HeaderField("Language") }

// NPlurals returns the number of plural forms declared by the
// Plural-Forms header, falling back to the rule known for the catalog
// language.
func (c *Catalog) NPlurals() int {
	if n := parseNPlurals(c.HeaderField("Plural-Forms")); n > 0 {
		return n
	}
	return parseNPlurals(PluralFormsFor(c.Language()))
}

// Touch stamps PO-Revision-Date and X-Generator.
func (c *Catalog) Touch(generator string, now time.Time) {
	c.SetHeaderField("PO-Revision-Date", now.UTC().Format("2006-01-02 15:04-0700"))
	if generator != "" {
		c.SetHeaderField("X-Generator", generator)
	}
}

func parseNPlurals(forms string) int {
	_, rest, ok := strings.Cut(forms, "nplurals=")
	if !ok {
		return 0
	}
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(rest)
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0
	}
	return n
}
