package provider

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language was requested.
const DefaultLanguage = "en"

// ParseLanguage parses a user supplied language such as "en", "de" or
// "pt-BR". An empty value yields DefaultLanguage.
func ParseLanguage(value string) (language.Tag, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = DefaultLanguage
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", value, err)
	}
	return tag, nil
}

// LocaleCode returns a language-region code as TMDB expects it ("de-DE").
// The region is inferred when the tag does not carry one.
func LocaleCode(value string) string {
	tag, err := ParseLanguage(value)
	if err != nil {
		return "en-US"
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	if region.String() == "ZZ" {
		return base.String()
	}
	return base.String() + "-" + region.String()
}

// ThreeLetterCode returns the ISO 639-3 code TVDB keys its translations by
// ("deu", "eng"). It is empty when value is not a usable language.
func ThreeLetterCode(value string) string {
	tag, err := ParseLanguage(value)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.ISO3()
}
