package usecase

import (
	"regexp"
	"strings"

	"github.com/shoefinder/backend/internal/domain"
)

// A word boundary is the start or end of the title, or any rune that is not a
// letter or digit. RE2's \b is ASCII-only, so it is spelled out here.
const (
	wordStart = `(?i)(?:^|[^\p{L}\p{N}])`
	wordEnd   = `(?:[^\p{L}\p{N}]|$)`
)

var (
	menPattern   = wordPattern(domain.GenderMen)
	womenPattern = wordPattern(domain.GenderWomen)
)

// wordPattern compiles a case-insensitive whole-word pattern for term
func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(wordStart + regexp.QuoteMeta(term) + wordEnd)
}

// TermMatcher checks product titles against every term of a query
type TermMatcher struct {
	patterns []*regexp.Regexp
}

// NewTermMatcher compiles one pattern per term
func NewTermMatcher(terms []string) *TermMatcher {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		patterns = append(patterns, wordPattern(term))
	}
	return &TermMatcher{patterns: patterns}
}

// Matches reports whether title contains every term as a whole word.
// A matcher without terms matches everything.
func (m *TermMatcher) Matches(title string) bool {
	for _, p := range m.patterns {
		if !p.MatchString(title) {
			return false
		}
	}
	return true
}

// NormalizeGender lowercases gender and returns "" for anything other than men or women
func NormalizeGender(gender string) string {
	switch g := strings.ToLower(strings.TrimSpace(gender)); g {
	case domain.GenderMen, domain.GenderWomen:
		return g
	default:
		return ""
	}
}

// matchesGender applies the gender constraint to a product title.
// "men" must exclude titles containing "women" as a word.
func matchesGender(title, gender string) bool {
	switch gender {
	case domain.GenderWomen:
		return womenPattern.MatchString(title)
	case domain.GenderMen:
		return menPattern.MatchString(title) && !womenPattern.MatchString(title)
	default:
		return true
	}
}

// hasAvailableSize reports whether any variant is titled size and not marked unavailable
func hasAvailableSize(product domain.CatalogProduct, size string) bool {
	return sizeVariant(product, size) != nil
}

// sizeVariant returns the first available variant whose title equals size
func sizeVariant(product domain.CatalogProduct, size string) *domain.CatalogVariant {
	for i := range product.Variants {
		v := &product.Variants[i]
		if !strings.EqualFold(strings.TrimSpace(v.Title), size) {
			continue
		}
		if v.Available != nil && !*v.Available {
			continue
		}
		return v
	}
	return nil
}
