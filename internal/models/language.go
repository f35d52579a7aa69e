package models

type Language string

const (
	LanguageEN Language = "en"
	LanguageTH Language = "th"
)

// Languages lists the site locales in display order.
var Languages = []Language{LanguageEN, LanguageTH}

func (l Language) IsValid() bool {
	return l == LanguageEN || l == LanguageTH
}
