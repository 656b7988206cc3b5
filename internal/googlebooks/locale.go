package googlebooks

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	// LocaleDefault asks for the language of the running system.
	LocaleDefault = "default"

	fallbackLanguage = "en"
)

// ResolveLanguage turns a locale preference into a langRestrict value.
// "default" resolves systemLocale (a POSIX locale such as "de_DE.UTF-8") to its
// base language; any other preference is used as given.
func ResolveLanguage(preference, systemLocale string) string {
	preference = strings.TrimSpace(preference)
	if preference != "" && preference != LocaleDefault {
		return preference
	}

	tag, err := language.Parse(posixToBCP47(systemLocale))
	if err != nil || tag == language.Und {
		return fallbackLanguage
	}

	base, confidence := tag.Base()
	if confidence == language.No {
		return fallbackLanguage
	}
	return base.String()
}

// posixToBCP47 strips the codeset and modifier from a POSIX locale and swaps
// the territory separator.
func posixToBCP47(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}
