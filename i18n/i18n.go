// Package i18n translates the user-facing strings of autotrans itself.
//
// Catalogs are embedded from locales/<lang>/LC_MESSAGES/autotrans.po and
// read with gotext. Untranslated strings pass through unchanged.
//
//	i18n.Init("")  // LANGUAGE, LC_ALL, LC_MESSAGES, LANG
//	fmt.Println(i18n.T("All translations are complete"))
//	fmt.Println(i18n.N("%d message", "%d messages", n))
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"

	"github.com/minios-linux/autotrans/langtag"
)

//go:embed all:locales
var locales embed.FS

const domain = "autotrans"

var po *gotext.Locale

// Init loads the catalog for lang, or for the environment's language when
// lang is empty. It should be called once before T, N or Tf.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	po = gotext.NewLocaleFSWithPath(pick(lang), locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// pick maps lang onto an embedded locale directory: exact match first,
// then the base language ("pt_BR" → "pt").
func pick(lang string) string {
	avail := Available()
	loc := langtag.Locale(lang)
	if slices.Contains(avail, loc) {
		return loc
	}
	if base := langtag.Base(lang); slices.Contains(avail, base) {
		return base
	}
	return loc
}

// Available lists the embedded UI languages.
func Available() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() {
			langs = append(langs, e.Name())
		}
	}
	return langs
}

// T translates msgid.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// Tf translates format and then formats it with args.
func Tf(format string, args ...any) string {
	return fmt.Sprintf(T(format), args...)
}

// N translates a message with plural forms and formats n into it.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return fmt.Sprintf(singular, n)
		}
		return fmt.Sprintf(plural, n)
	}
	return po.GetN(singular, plural, n, n)
}

// detectLanguage follows GNU gettext: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if i := strings.IndexAny(val, ".@"); i >= 0 {
			val = val[:i]
		}
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}
