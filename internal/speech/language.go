package speech

import (
	"golang.org/x/text/language"
	"little-genius/internal/domain"
)

// Voices used by the app. They pick pronunciation, not UI copy.
var (
	EnglishIndia = language.MustParse("en-IN")
	TeluguIndia  = language.MustParse("te-IN")
	HindiIndia   = language.MustParse("hi-IN")
)

var supported = language.NewMatcher([]language.Tag{EnglishIndia, TeluguIndia, HindiIndia})

// ParseTag resolves a client supplied tag to one of the supported voices, defaulting to English.
func ParseTag(raw string) language.Tag {
	if raw == "" {
		return EnglishIndia
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return EnglishIndia
	}
	_, idx, conf := supported.Match(tag)
	if conf == language.No {
		return EnglishIndia
	}
	return []language.Tag{EnglishIndia, TeluguIndia, HindiIndia}[idx]
}

// TagForCatalog returns the voice a catalog's entries are spoken with.
func TagForCatalog(kind domain.CatalogKind) language.Tag {
	switch kind {
	case domain.CatalogLettersTE:
		return TeluguIndia
	case domain.CatalogLettersHI:
		return HindiIndia
	}
	return EnglishIndia
}
