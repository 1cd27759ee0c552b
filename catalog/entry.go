package catalog

import "slices"

const fuzzyFlag = "fuzzy"

// Entry is one message of a catalog.
type Entry struct {
	TranslatorComments []string
	ExtractedComments  []string
	References         []string
	Flags              []string
	// PreviousMsgID is the "#| msgid" line of a fuzzy entry.
	PreviousMsgID string

	MsgCtxt     string
	MsgID       string
	MsgIDPlural string
	// MsgStr is the translation of a non-plural entry.
	MsgStr string
	// MsgStrs holds msgstr[0..n-1] of a plural entry.
	MsgStrs []string

	Obsolete bool
}

// IsPlural reports whether the entry has a msgid_plural.
func (e *Entry) IsPlural() bool { return e.MsgIDPlural != "" }

// IsFuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) IsFuzzy() bool { return e.HasFlag(fuzzyFlag) }

// HasFlag reports whether flag is set on the entry.
func (e *Entry) HasFlag(flag string) bool { return slices.Contains(e.Flags, flag) }

// SetFuzzy adds or removes the fuzzy flag. Removing it also drops the
// previous msgid, which only makes sense on fuzzy entries.
func (e *Entry) SetFuzzy(fuzzy bool) {
	switch {
	case fuzzy && !e.IsFuzzy():
		e.Flags = append([]string{fuzzyFlag}, e.Flags...)
	case !fuzzy:
		e.Flags = slices.DeleteFunc(e.Flags, func(f string) bool { return f == fuzzyFlag })
		e.PreviousMsgID = ""
	}
}

// IsTranslated reports whether every form of the entry has a translation
// and the entry is not fuzzy.
func (e *Entry) IsTranslated() bool {
	if e.MsgID == "" || e.IsFuzzy() {
		return false
	}
	if !e.IsPlural() {
		return e.MsgStr != ""
	}
	if len(e.MsgStrs) == 0 {
		return false
	}
	for _, s := range e.MsgStrs {
		if s == "" {
			return false
		}
	}
	return true
}

// Fill stores machine translations of the singular and plural msgids.
// A plural entry gets singular in msgstr[0] and plural in every other
// form; languages with a single form get plural only.
func (e *Entry) Fill(singular, plural string, nplurals int) {
	if !e.IsPlural() {
		e.MsgStr = singular
		return
	}
	if nplurals < 1 {
		nplurals = 2
	}
	forms := make([]string, nplurals)
	if nplurals == 1 {
		forms[0] = plural
	} else {
		forms[0] = singular
		for i := 1; i < nplurals; i++ {
			forms[i] = plural
		}
	}
	e.MsgStrs = forms
}

func (e *Entry) key() string {
	if e.MsgCtxt == "" {
		return e.MsgID
	}
	return e.MsgCtxt + "\x04" + e.MsgID
}
