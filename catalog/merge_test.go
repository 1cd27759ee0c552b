package catalog

import (
	"reflect"
	"testing"
)

func TestMergeKeepsNewAndObsolete(t *testing.T) {
	po := New()
	po.Header.MsgStr = "Project-Id-Version: demo 1\nPOT-Creation-Date: old\nLanguage: ru\n"
	po.Messages = []*Entry{
		{MsgID: "keep", MsgStr: "оставить", Flags: []string{"fuzzy", "c-format"}, References: []string{"old.py:1"}, TranslatorComments: []string{"checked"}},
		{MsgID: "drop", MsgStr: "убрать", References: []string{"unused.py:1"}},
		{MsgID: "already", MsgStr: "x", Obsolete: true},
	}

	pot := New()
	pot.Header.MsgStr = "POT-Creation-Date: new\n"
	pot.Messages = []*Entry{
		{MsgID: "keep", References: []string{"new.py:10"}, Flags: []string{"python-format"}, ExtractedComments: []string{"auto"}},
		{MsgID: "new", MsgIDPlural: "news"},
	}

	merged := Merge(po, pot)

	if got := merged.HeaderField("POT-Creation-Date"); got != "new" {
		t.Fatalf("POT-Creation-Date = %q, want new", got)
	}
	if got := po.HeaderField("POT-Creation-Date"); got != "old" {
		t.Fatalf("input header mutated: %q", got)
	}
	if len(merged.Messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(merged.Messages))
	}

	keep := merged.Messages[0]
	if keep.MsgStr != "оставить" || keep.TranslatorComments[0] != "checked" {
		t.Fatalf("keep lost translation: %+v", keep)
	}
	if !reflect.DeepEqual(keep.Flags, []string{"fuzzy", "python-format"}) {
		t.Fatalf("keep flags = %q", keep.Flags)
	}
	if !reflect.DeepEqual(keep.References, []string{"new.py:10"}) {
		t.Fatalf("keep references = %q", keep.References)
	}

	fresh := merged.Messages[1]
	if fresh.MsgID != "new" || fresh.MsgStr != "" || fresh.IsTranslated() {
		t.Fatalf("new entry = %+v", fresh)
	}

	drop := merged.Messages[2]
	if drop.MsgID != "drop" || !drop.Obsolete || drop.References != nil {
		t.Fatalf("drop entry = %+v", drop)
	}
	if po.Messages[1].Obsolete {
		t.Fatal("input entry mutated")
	}
	if !merged.Messages[3].Obsolete {
		t.Fatal("already-obsolete entry lost")
	}
}

func TestFromTemplate(t *testing.T) {
	pot := New()
	pot.Header.MsgStr = "Project-Id-Version: demo 1\nLanguage: \n"
	pot.Header.Flags = []string{"fuzzy"}
	pot.Messages = []*Entry{
		{MsgID: "a", References: []string{"x.py:1"}},
		{MsgID: "%d b", MsgIDPlural: "%d bs"},
		{MsgID: "old", Obsolete: true},
	}

	c := FromTemplate(pot, "pl")

	if c.Language() != "pl" || c.NPlurals() != 3 {
		t.Fatalf("Language=%q NPlurals=%d", c.Language(), c.NPlurals())
	}
	if c.Header.IsFuzzy() {
		t.Fatal("new catalog header must not be fuzzy")
	}
	if !pot.Header.IsFuzzy() {
		t.Fatal("template header mutated")
	}
	if len(c.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(c.Messages))
	}
	if got := c.Stats(); got.Untranslated != 2 {
		t.Fatalf("Stats = %+v", got)
	}
}
