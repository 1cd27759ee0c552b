package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// --- Parsing ---

// Parse reads a PO or POT catalog.
func Parse(r io.Reader) (*Catalog, error) {
	p := &parser{cat: New()}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.lineNum++
		if err := p.line(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	p.flush()
	return p.cat, nil
}

// ParseFile reads a catalog from disk.
func ParseFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

type parser struct {
	cat     *Catalog
	cur     *Entry
	target  *string // field continuation lines append to
	lineNum int
	header  bool
}

func (p *parser) entry() *Entry {
	if p.cur == nil {
		p.cur = &Entry{}
	}
	return p.cur
}

func (p *parser) flush() {
	if p.cur == nil {
		return
	}
	if p.cur.MsgID == "" && !p.cur.Obsolete && !p.header {
		p.cat.Header = p.cur
		p.header = true
	} else {
		p.cat.Messages = append(p.cat.Messages, p.cur)
	}
	p.cur, p.target = nil, nil
}

func (p *parser) line(raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		p.flush()
		return nil
	}

	obsolete := false
	if rest, ok := strings.CutPrefix(line, "#~"); ok {
		obsolete = true
		line = strings.TrimSpace(rest)
		if line == "" {
			return nil
		}
		if strings.HasPrefix(line, "|") {
			p.comment("#" + line)
			p.entry().Obsolete = true
			return nil
		}
	} else if strings.HasPrefix(line, "#") {
		p.comment(line)
		return nil
	}

	if strings.HasPrefix(line, `"`) {
		if p.target == nil {
			return fmt.Errorf("line %d: string without keyword", p.lineNum)
		}
		s, err := unquote(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", p.lineNum, err)
		}
		*p.target += s
		return nil
	}

	keyword, value, _ := strings.Cut(line, " ")
	s, err := unquote(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("line %d: %w", p.lineNum, err)
	}

	// A new msgctxt or msgid after a msgstr starts a new entry even
	// without a blank line in between.
	if (keyword == "msgid" || keyword == "msgctxt") && p.cur != nil && p.sawMsgStr() {
		p.flush()
	}

	e := p.entry()
	if obsolete {
		e.Obsolete = true
	}
	switch {
	case keyword == "msgctxt":
		e.MsgCtxt = s
		p.target = &e.MsgCtxt
	case keyword == "msgid":
		e.MsgID = s
		p.target = &e.MsgID
	case keyword == "msgid_plural":
		e.MsgIDPlural = s
		p.target = &e.MsgIDPlural
	case keyword == "msgstr":
		e.MsgStr = s
		p.target = &e.MsgStr
	case strings.HasPrefix(keyword, "msgstr[") && strings.HasSuffix(keyword, "]"):
		idx, err := strconv.Atoi(keyword[len("msgstr[") : len(keyword)-1])
		if err != nil || idx < 0 {
			return fmt.Errorf("line %d: bad plural index in %q", p.lineNum, keyword)
		}
		for len(e.MsgStrs) <= idx {
			e.MsgStrs = append(e.MsgStrs, "")
		}
		e.MsgStrs[idx] = s
		p.target = &e.MsgStrs[idx]
	default:
		return fmt.Errorf("line %d: unknown keyword %q", p.lineNum, keyword)
	}
	return nil
}

func (p *parser) sawMsgStr() bool {
	return p.target == &p.cur.MsgStr || len(p.cur.MsgStrs) > 0
}

func (p *parser) comment(line string) {
	if p.cur != nil && p.target != nil && p.sawMsgStr() {
		p.flush()
	}
	e := p.entry()
	kind, text := line[:min(2, len(line))], strings.TrimSpace(line[min(2, len(line)):])
	switch kind {
	case "#:":
		e.References = append(e.References, text)
	case "#.":
		e.ExtractedComments = append(e.ExtractedComments, text)
	case "#,":
		for _, flag := range strings.Split(text, ",") {
			if flag = strings.TrimSpace(flag); flag != "" && !e.HasFlag(flag) {
				e.Flags = append(e.Flags, flag)
			}
		}
	case "#|":
		if v, ok := strings.CutPrefix(text, "msgid "); ok {
			e.PreviousMsgID, _ = unquote(v)
		}
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
	}
}

// --- Writing ---

// Write serialises the catalog. Plural messages are written with as many
// msgstr[i] lines as the catalog's plural count.
func (c *Catalog) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	nplurals := c.NPlurals()
	first := true
	if c.Header != nil {
		writeEntry(bw, c.Header, nplurals)
		first = false
	}
	for _, e := range c.Messages {
		if !first {
			bw.WriteByte('\n')
		}
		first = false
		writeEntry(bw, e, nplurals)
	}
	return bw.Flush()
}

// WriteFile writes the catalog to path through a temporary file in the
// same directory.
func (c *Catalog) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".catalog-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := c.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeEntry(w *bufio.Writer, e *Entry, nplurals int) {
	for _, c := range e.TranslatorComments {
		if c == "" {
			w.WriteString("#\n")
		} else {
			fmt.Fprintf(w, "# %s\n", c)
		}
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, r := range e.References {
		fmt.Fprintf(w, "#: %s\n", r)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.PreviousMsgID))
	}

	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}
	if e.MsgCtxt != "" {
		writeField(w, prefix, "msgctxt", e.MsgCtxt)
	}
	writeField(w, prefix, "msgid", e.MsgID)
	if !e.IsPlural() {
		writeField(w, prefix, "msgstr", e.MsgStr)
		return
	}
	writeField(w, prefix, "msgid_plural", e.MsgIDPlural)
	n := max(len(e.MsgStrs), nplurals, 1)
	for i := range n {
		var s string
		if i < len(e.MsgStrs) {
			s = e.MsgStrs[i]
		}
		writeField(w, prefix, fmt.Sprintf("msgstr[%d]", i), s)
	}
}

// writeField writes a keyword and its string, splitting multi-line values
// after each "\n" the way msgmerge does.
func writeField(w *bufio.Writer, prefix, keyword, value string) {
	if !strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s %s\n", prefix, keyword, quote(value))
		return
	}
	fmt.Fprintf(w, "%s%s \"\"\n", prefix, keyword)
	for _, part := range strings.SplitAfter(value, "\n") {
		if part != "" {
			fmt.Fprintf(w, "%s%s\n", prefix, quote(part))
		}
	}
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string { return `"` + quoter.Replace(s) + `"` }

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("malformed string %s", s)
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"', '\\':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}
