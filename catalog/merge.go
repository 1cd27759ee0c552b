package catalog

import "slices"

// FromTemplate creates an empty translation catalog for lang from a POT
// template, like msginit.
func FromTemplate(pot *Catalog, lang string) *Catalog {
	c := New()
	if pot.Header != nil {
		h := *pot.Header
		h.Flags = slices.DeleteFunc(slices.Clone(h.Flags), func(f string) bool { return f == fuzzyFlag })
		c.Header = &h
	}
	c.SetHeaderField("Language", lang)
	c.SetHeaderField("Plural-Forms", PluralFormsFor(lang))
	c.SetHeaderField("Content-Type", "text/plain; charset=UTF-8")
	for _, e := range pot.live() {
		c.Messages = append(c.Messages, fresh(e))
	}
	return c
}

// Merge updates po against a POT template, like msgmerge without fuzzy
// matching:
//   - messages still in the template keep their translation and take the
//     template's comments, references and format flags;
//   - new template messages are added untranslated;
//   - messages gone from the template become obsolete.
//
// The result keeps po's header with the template's POT-Creation-Date.
func Merge(po, pot *Catalog) *Catalog {
	out := New()
	if po.Header != nil {
		h := *po.Header
		out.Header = &h
	}
	if date := pot.HeaderField("POT-Creation-Date"); date != "" {
		out.SetHeaderField("POT-Creation-Date", date)
	}

	existing := make(map[string]*Entry)
	for _, e := range po.live() {
		existing[e.key()] = e
	}

	seen := make(map[string]bool)
	for _, t := range pot.live() {
		old, ok := existing[t.key()]
		if !ok {
			out.Messages = append(out.Messages, fresh(t))
			continue
		}
		seen[t.key()] = true
		m := fresh(t)
		m.TranslatorComments = old.TranslatorComments
		m.Flags = mergeFlags(old.Flags, t.Flags)
		m.PreviousMsgID = old.PreviousMsgID
		m.MsgStr = old.MsgStr
		m.MsgStrs = slices.Clone(old.MsgStrs)
		out.Messages = append(out.Messages, m)
	}

	for _, e := range po.Messages {
		switch {
		case e.MsgID == "":
		case e.Obsolete:
			out.Messages = append(out.Messages, e)
		case !seen[e.key()]:
			gone := *e
			gone.Obsolete = true
			gone.References = nil
			out.Messages = append(out.Messages, &gone)
		}
	}
	return out
}

func fresh(t *Entry) *Entry {
	return &Entry{
		ExtractedComments: slices.Clone(t.ExtractedComments),
		References:        slices.Clone(t.References),
		Flags:             slices.Clone(t.Flags),
		MsgCtxt:           t.MsgCtxt,
		MsgID:             t.MsgID,
		MsgIDPlural:       t.MsgIDPlural,
	}
}

// mergeFlags keeps fuzzy from the translation and takes every other flag
// from the template, in template order.
func mergeFlags(po, pot []string) []string {
	var out []string
	if slices.Contains(po, fuzzyFlag) {
		out = append(out, fuzzyFlag)
	}
	for _, f := range pot {
		if f != fuzzyFlag && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
