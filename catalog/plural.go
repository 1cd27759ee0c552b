package catalog

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	pluralsOne         = "nplurals=1; plural=0;"
	pluralsNotOne      = "nplurals=2; plural=(n != 1);"
	pluralsMoreThanOne = "nplurals=2; plural=(n > 1);"
	pluralsEastSlavic  = "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
)

var pluralForms = map[string]string{
	"ja": pluralsOne, "ko": pluralsOne, "zh": pluralsOne, "vi": pluralsOne,
	"th": pluralsOne, "id": pluralsOne, "ms": pluralsOne, "km": pluralsOne,
	"lo": pluralsOne, "my": pluralsOne,

	"fr": pluralsMoreThanOne, "pt-BR": pluralsMoreThanOne, "tr": pluralsMoreThanOne,
	"fa": pluralsMoreThanOne, "hy": pluralsMoreThanOne,

	"ru": pluralsEastSlavic, "uk": pluralsEastSlavic, "be": pluralsEastSlavic,
	"sr": pluralsEastSlavic, "hr": pluralsEastSlavic, "bs": pluralsEastSlavic,

	"pl": "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"cs": "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);",
	"sk": "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);",
	"ro": "nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);",
	"lt": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"lv": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);",
	"sl": "nplurals=4; plural=(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3);",
	"ga": "nplurals=5; plural=(n==1 ? 0 : n==2 ? 1 : n<7 ? 2 : n<11 ? 3 : 4);",
	"ar": "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);",
}

// PluralFormsFor returns the Plural-Forms header value for a language.
// Both gettext ("pt_BR") and BCP 47 ("pt-BR") spellings are accepted;
// a regional rule wins over the base language's one. Unknown languages
// get the two-form English rule.
func PluralFormsFor(lang string) string {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return pluralsNotOne
	}
	base, _ := tag.Base()
	if region, conf := tag.Region(); conf == language.Exact {
		if forms, ok := pluralForms[base.String()+"-"+region.String()]; ok {
			return forms
		}
	}
	if forms, ok := pluralForms[base.String()]; ok {
		return forms
	}
	return pluralsNotOne
}
