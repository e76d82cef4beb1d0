// Package translate formats user visible messages in the language of the
// current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// FALLBACK is used when the locale cannot be determined.
const FALLBACK = "en-US"

// counted are messages whose wording depends on a count.
var counted = map[string][2]string{
	"%d steps":        {"%d step", "%d steps"},
	"%d lines":        {"%d line", "%d lines"},
	"%d instructions": {"%d instruction", "%d instructions"},
}

var printer = newPrinter()

// newCatalog builds the message catalog for the supported languages.
func newCatalog() (cat *catalog.Builder) {
	fallback := language.MustParse(FALLBACK)
	cat = catalog.NewBuilder(catalog.Fallback(fallback))

	for key, forms := range counted {
		err := cat.Set(fallback, key,
			plural.Selectf(1, "%d", "one", forms[0], "other", forms[1]))
		if err != nil {
			log.Printf("translate: %v: %v", key, err)
		}
	}

	return
}

// match picks the best supported language for a list of locale names.
func match(cat *catalog.Builder, locales []string) (tag language.Tag) {
	var tags []language.Tag
	for _, name := range locales {
		parsed, err := language.Parse(name)
		if err != nil {
			continue
		}
		tags = append(tags, parsed)
	}

	supported := cat.Languages()
	_, index, _ := language.NewMatcher(supported).Match(tags...)
	tag = supported[index]

	return
}

func newPrinter() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("translate: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{FALLBACK}
	}

	cat := newCatalog()

	return message.NewPrinter(match(cat, locales), message.Catalog(cat))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
