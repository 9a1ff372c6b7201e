package language

import "strings"

// Language is a language code understood by the translation service
type Language struct {
	Code       string // DeepL code (e.g., "FR", "PT-BR", "EN-US")
	Name       string // English name (e.g., "French", "Portuguese (Brazilian)")
	NativeName string // Native name (e.g., "Français", "Português")
	Source     bool   // accepted as source language
	Target     bool   // accepted as target language
}

// Unknown is returned by FromCode for codes that are not in the catalogue
var Unknown = Language{Code: "", Name: "Unknown", NativeName: ""}

// languages is the master list of supported languages
// derived from the DeepL v2 source/target language tables
var languages = []Language{
	{Code: "AR", Name: "Arabic", NativeName: "العربية", Source: true, Target: true},
	{Code: "BG", Name: "Bulgarian", NativeName: "Български", Source: true, Target: true},
	{Code: "CS", Name: "Czech", NativeName: "Čeština", Source: true, Target: true},
	{Code: "DA", Name: "Danish", NativeName: "Dansk", Source: true, Target: true},
	{Code: "DE", Name: "German", NativeName: "Deutsch", Source: true, Target: true},
	{Code: "EL", Name: "Greek", NativeName: "Ελληνικά", Source: true, Target: true},
	{Code: "EN", Name: "English", NativeName: "English", Source: true, Target: true},
	{Code: "EN-GB", Name: "English (British)", NativeName: "English (UK)", Target: true},
	{Code: "EN-US", Name: "English (American)", NativeName: "English (US)", Target: true},
	{Code: "ES", Name: "Spanish", NativeName: "Español", Source: true, Target: true},
	{Code: "ET", Name: "Estonian", NativeName: "Eesti", Source: true, Target: true},
	{Code: "FI", Name: "Finnish", NativeName: "Suomi", Source: true, Target: true},
	{Code: "FR", Name: "French", NativeName: "Français", Source: true, Target: true},
	{Code: "HU", Name: "Hungarian", NativeName: "Magyar", Source: true, Target: true},
	{Code: "ID", Name: "Indonesian", NativeName: "Bahasa Indonesia", Source: true, Target: true},
	{Code: "IT", Name: "Italian", NativeName: "Italiano", Source: true, Target: true},
	{Code: "JA", Name: "Japanese", NativeName: "日本語", Source: true, Target: true},
	{Code: "KO", Name: "Korean", NativeName: "한국어", Source: true, Target: true},
	{Code: "LT", Name: "Lithuanian", NativeName: "Lietuvių", Source: true, Target: true},
	{Code: "LV", Name: "Latvian", NativeName: "Latviešu", Source: true, Target: true},
	{Code: "NB", Name: "Norwegian (Bokmål)", NativeName: "Norsk bokmål", Source: true, Target: true},
	{Code: "NL", Name: "Dutch", NativeName: "Nederlands", Source: true, Target: true},
	{Code: "PL", Name: "Polish", NativeName: "Polski", Source: true, Target: true},
	{Code: "PT", Name: "Portuguese", NativeName: "Português", Source: true, Target: true},
	{Code: "PT-BR", Name: "Portuguese (Brazilian)", NativeName: "Português (Brasil)", Target: true},
	{Code: "PT-PT", Name: "Portuguese (European)", NativeName: "Português (Portugal)", Target: true},
	{Code: "RO", Name: "Romanian", NativeName: "Română", Source: true, Target: true},
	{Code: "RU", Name: "Russian", NativeName: "Русский", Source: true, Target: true},
	{Code: "SK", Name: "Slovak", NativeName: "Slovenčina", Source: true, Target: true},
	{Code: "SL", Name: "Slovenian", NativeName: "Slovenščina", Source: true, Target: true},
	{Code: "SV", Name: "Swedish", NativeName: "Svenska", Source: true, Target: true},
	{Code: "TR", Name: "Turkish", NativeName: "Türkçe", Source: true, Target: true},
	{Code: "UK", Name: "Ukrainian", NativeName: "Українська", Source: true, Target: true},
	{Code: "ZH", Name: "Chinese", NativeName: "中文", Source: true, Target: true},
	{Code: "ZH-HANS", Name: "Chinese (simplified)", NativeName: "简体中文", Target: true},
	{Code: "ZH-HANT", Name: "Chinese (traditional)", NativeName: "繁體中文", Target: true},
}

// codeIndex maps upper-cased codes to their Language structs for fast lookup
var codeIndex map[string]Language

func init() {
	codeIndex = make(map[string]Language, len(languages))
	for _, lang := range languages {
		codeIndex[lang.Code] = lang
	}
}

// Normalize upper-cases a code and accepts "_" as region separator ("pt_br" -> "PT-BR")
func Normalize(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// FromCode returns the Language for the given code.
// Returns Unknown if code is not found.
func FromCode(code string) Language {
	if lang, ok := codeIndex[Normalize(code)]; ok {
		return lang
	}
	return Unknown
}

// Sources returns the languages accepted as translation source
func Sources() []Language {
	var result []Language
	for _, lang := range languages {
		if lang.Source {
			result = append(result, lang)
		}
	}
	return result
}

// Targets returns the languages accepted as translation target
func Targets() []Language {
	var result []Language
	for _, lang := range languages {
		if lang.Target {
			result = append(result, lang)
		}
	}
	return result
}

func IsValidSource(code string) bool {
	lang, ok := codeIndex[Normalize(code)]
	return ok && lang.Source
}

func IsValidTarget(code string) bool {
	lang, ok := codeIndex[Normalize(code)]
	return ok && lang.Target
}

// Tag returns the short label used on the console and in the transcript log:
// the base language without region ("PT-BR" -> "PT", "fr" -> "FR").
func Tag(code string) string {
	n := Normalize(code)
	if i := strings.IndexByte(n, '-'); i > 0 {
		return n[:i]
	}
	return n
}

// Base returns the lower-case ISO 639-1 code used by speech recognizers ("FR" -> "fr")
func Base(code string) string {
	return strings.ToLower(Tag(code))
}
