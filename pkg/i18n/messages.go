// Package i18n looks up localized user-facing strings.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyComponentDoesNotFit = "component.does.not.fit"
	KeyGaugeValue          = "gauge.value"
	KeyScrollbarLabel      = "scrollbar.label"
)

// Messages resolves a key and arguments to a display string.
type Messages interface {
	Get(key string, args ...any) string
}

var defaults = map[language.Tag]map[string]string{
	language.English: {
		KeyComponentDoesNotFit: "Component %d does not fit: %dx%d",
		KeyGaugeValue:          "%d of %d",
		KeyScrollbarLabel:      "%d%%",
	},
	language.German: {
		KeyComponentDoesNotFit: "Komponente %d passt nicht: %dx%d",
		KeyGaugeValue:          "%d von %d",
		KeyScrollbarLabel:      "%d%%",
	},
	language.Spanish: {
		KeyComponentDoesNotFit: "El componente %d no cabe: %dx%d",
		KeyGaugeValue:          "%d de %d",
		KeyScrollbarLabel:      "%d%%",
	},
}

// Catalog is a Messages backed by an x/text catalog.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a catalog for locale, falling back to English for unknown
// locales and missing keys. Overrides replace or add entries for the
// chosen locale.
func New(locale string, overrides map[string]string) *Catalog {
	supported := make([]language.Tag, 0, len(defaults))
	supported = append(supported, language.English)
	for tag := range defaults {
		if tag != language.English {
			supported = append(supported, tag)
		}
	}
	matcher := language.NewMatcher(supported)

	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag, _, _ = matcher.Match(parsed)
		}
	}
	base, _ := tag.Base()
	tag = language.Make(base.String())

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for t, entries := range defaults {
		for key, format := range entries {
			_ = b.SetString(t, key, format)
		}
	}
	for key, format := range overrides {
		_ = b.SetString(tag, key, format)
	}

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}
}

// Default returns the English catalog.
func Default() *Catalog {
	return New("en", nil)
}

// Language returns the resolved language tag.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// Get formats the message for key.
func (c *Catalog) Get(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}
