// Package i18n holds the fixed localization table for the three supported
// languages and resolves button labels back into semantic keys.
package i18n

import "strings"

// Language is one of the supported interface languages. The zero value means
// the user has not picked a language yet.
type Language uint8

const (
	// Unset marks a session that has not completed language selection.
	Unset Language = iota
	English
	Russian
	Spanish
)

// Languages lists the selectable languages in menu order.
var Languages = []Language{English, Russian, Spanish}

// Valid reports whether l is a selectable language.
func (l Language) Valid() bool {
	return l >= English && l <= Spanish
}

// Code returns the ISO 639-1 code, or an empty string for Unset.
func (l Language) Code() string {
	switch l {
	case English:
		return "en"
	case Russian:
		return "ru"
	case Spanish:
		return "es"
	}
	return ""
}

// Label returns the language's own name as shown on the selector keyboard.
func (l Language) Label() string {
	switch l {
	case English:
		return "English"
	case Russian:
		return "Русский"
	case Spanish:
		return "Español"
	}
	return ""
}

func (l Language) String() string {
	if code := l.Code(); code != "" {
		return code
	}
	return "unset"
}

// ParseCode maps an ISO code ("en", "RU", ...) to a Language.
func ParseCode(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range Languages {
		if l.Code() == code {
			return l, true
		}
	}
	return Unset, false
}

// FromLabel matches a selector label exactly.
func FromLabel(text string) (Language, bool) {
	for _, l := range Languages {
		if l.Label() == text {
			return l, true
		}
	}
	return Unset, false
}

// LanguagePrompt is shown with the language selector before any language is known.
const LanguagePrompt = "🌐 Please choose your language / Пожалуйста, выберите язык / Por favor, elige tu idioma:"

// InvalidLanguage is shown when the selector receives anything but a language label.
const InvalidLanguage = "⚠️ Please select a valid language:"

// Text returns the string for key in lang. Unset and unknown languages fall
// back to English.
func Text(lang Language, key Key) string {
	if !lang.Valid() {
		lang = English
	}
	if key >= keyCount {
		return ""
	}
	return catalogs[lang][key]
}

// Match resolves text into one of the candidate keys by exact comparison with
// the localized labels of lang.
func Match(lang Language, text string, candidates ...Key) (Key, bool) {
	for _, k := range candidates {
		if Text(lang, k) == text {
			return k, true
		}
	}
	return 0, false
}
