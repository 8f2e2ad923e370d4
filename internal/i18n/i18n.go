// Package i18n holds the user-facing texts in English and Turkish.
package i18n

import (
	"golang.org/x/text/language"
)

type Locale string

const (
	EN Locale = "en"
	TR Locale = "tr"
)

var supported = []language.Tag{language.English, language.Turkish}

var matcher = language.NewMatcher(supported)

// T returns the message for key in locale, falling back to English.
func T(l Locale, key Key) string {
	if key < 0 || key >= keyCount {
		return ""
	}
	if l == TR {
		if s, ok := tr[key]; ok {
			return s
		}
	}
	return en[key]
}

// Match picks the locale for a request. An explicit profile language wins
// over the Accept-Language header; fallback is used when neither matches.
func Match(acceptLanguage, profileLanguage string, fallback Locale) Locale {
	if l, ok := Parse(profileLanguage); ok {
		return l
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				return fromTag(supported[idx])
			}
		}
	}
	if fallback == "" {
		return EN
	}
	return fallback
}

// Parse accepts tags like "tr", "tr-TR" or "en-US".
func Parse(s string) (Locale, bool) {
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "tr":
		return TR, true
	case "en":
		return EN, true
	}
	return "", false
}

func fromTag(t language.Tag) Locale {
	if t == language.Turkish {
		return TR
	}
	return EN
}
