package ocr

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Tesseract names Chinese models by script rather than by base language.
const (
	chineseSimplified  = "chi_sim"
	chineseTraditional = "chi_tra"
)

// ignoredModels are traineddata files that are not recognition languages.
var ignoredModels = map[string]bool{
	"osd": true,
	"equ": true,
}

// ResolveLanguage maps a BCP-47 language tag ("en-US", "zh-Hant", "de") to a
// Tesseract language code ("eng", "chi_tra", "deu"). Tesseract codes are
// accepted as-is. The boolean is false when tag cannot be parsed.
func ResolveLanguage(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", false
	}
	if strings.Contains(tag, "_") {
		return tag, true
	}

	t, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, _ := t.Base()
	if base.String() == "zh" {
		script, _ := t.Script()
		if script.String() == "Hant" {
			return chineseTraditional, true
		}
		return chineseSimplified, true
	}

	code := base.ISO3()
	if code == "" {
		return "", false
	}
	return code, true
}

// FromProfile returns the first of the user's preferred languages that has an
// installed model. Preferred entries may be BCP-47 tags or Tesseract codes.
func FromProfile(preferred, available []string) (string, bool) {
	for _, p := range preferred {
		if code, ok := Pick(p, available); ok {
			return code, true
		}
	}
	return "", false
}

// Pick returns the Tesseract code for lang if that language is installed.
// A plain "zh" tag takes the Traditional Chinese model when only that one is
// installed, and the reverse. Explicit scripts and Tesseract codes match
// exactly.
func Pick(lang string, available []string) (string, bool) {
	code, ok := ResolveLanguage(lang)
	if !ok {
		return "", false
	}
	if slices.Contains(available, code) {
		return code, true
	}
	if alt, ok := otherChineseScript(lang); ok && slices.Contains(available, alt) {
		return alt, true
	}
	return "", false
}

// otherChineseScript returns the model of the script lang did not name, for
// Chinese tags without an explicit script.
func otherChineseScript(lang string) (string, bool) {
	t, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return "", false
	}
	if base, _ := t.Base(); base.String() != "zh" {
		return "", false
	}
	if _, conf := t.Script(); conf == language.Exact {
		return "", false
	}
	code, _ := ResolveLanguage(lang)
	if code == chineseSimplified {
		return chineseTraditional, true
	}
	return chineseSimplified, true
}

// DisplayName returns the English name of a Tesseract language code, or the
// code itself when it has no known name.
func DisplayName(code string) string {
	tag, ok := codeToTag(code)
	if !ok {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

func codeToTag(code string) (language.Tag, bool) {
	switch code {
	case chineseSimplified:
		return language.SimplifiedChinese, true
	case chineseTraditional:
		return language.TraditionalChinese, true
	}

	// Script variants such as "srp_latn" name the base language first.
	base, _, _ := strings.Cut(code, "_")
	b, err := language.ParseBase(base)
	if err != nil {
		return language.Und, false
	}
	tag, err := language.Compose(b)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

// filterModels drops non-language models and keeps the input order.
func filterModels(models []string) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m == "" || ignoredModels[m] {
			continue
		}
		out = append(out, m)
	}
	return out
}
