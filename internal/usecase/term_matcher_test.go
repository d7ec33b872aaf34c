package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoefinder/backend/internal/domain"
)

func TestTermMatcher_Matches(t *testing.T) {
	testCases := []struct {
		name  string
		terms []string
		title string
		want  bool
	}{
		{"no terms matches everything", nil, "Anything At All", true},
		{"single term case-insensitive", []string{"wool"}, "Men's Wool Runner", true},
		{"all terms required", []string{"wool", "runner"}, "Men's Wool Runner", true},
		{"missing term fails", []string{"wool", "dasher"}, "Men's Wool Runner", false},
		{"whole word at start", []string{"run"}, "Run Club Tee", true},
		{"partial word does not match", []string{"run"}, "Men's Running Shoe", false},
		{"word inside another word does not match", []string{"men"}, "Women's Tree Dasher", false},
		{"apostrophe term", []string{"men's"}, "Men's Tree Runner", true},
		{"punctuation is a boundary", []string{"mizzle"}, "Wool Runner-Mizzle", true},
		{"regex characters are literal", []string{"c++"}, "C++ Runner", true},
		{"regex dot is literal", []string{"v.2"}, "Runner v22", false},
		{"accented letters are word characters", []string{"lain"}, "Coureur Lainé", false},
		{"accented term matches whole word", []string{"lainé"}, "Coureur Lainé Noir", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewTermMatcher(tc.terms).Matches(tc.title))
		})
	}
}

func TestMatchesGender(t *testing.T) {
	testCases := []struct {
		name   string
		title  string
		gender string
		want   bool
	}{
		{"men matches men's title", "Men's Runner", domain.GenderMen, true},
		{"men rejects women's title", "Women's Runner", domain.GenderMen, false},
		{"men rejects title naming both", "Men's and Women's Socks", domain.GenderMen, false},
		{"women matches women's title", "Women's Runner", domain.GenderWomen, true},
		{"women rejects men's title", "Men's Runner", domain.GenderWomen, false},
		{"unspecified keeps everything", "Trail Runner", "", true},
		{"men rejects ungendered title", "Trail Runner", domain.GenderMen, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matchesGender(tc.title, tc.gender))
		})
	}
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, "men", NormalizeGender("Men"))
	assert.Equal(t, "women", NormalizeGender(" WOMEN "))
	assert.Equal(t, "", NormalizeGender("kids"))
	assert.Equal(t, "", NormalizeGender(""))
}

func TestHasAvailableSize(t *testing.T) {
	yes, no := true, false
	product := domain.CatalogProduct{
		Title: "Men's Tree Runner",
		Variants: []domain.CatalogVariant{
			{Title: "8", Available: &no},
			{Title: "9", Available: &yes},
			{Title: "10"},
			{Title: "M11 "},
		},
	}

	assert.False(t, hasAvailableSize(product, "8"), "explicitly unavailable")
	assert.True(t, hasAvailableSize(product, "9"))
	assert.True(t, hasAvailableSize(product, "10"), "missing availability counts as available")
	assert.True(t, hasAvailableSize(product, "m11"), "case-insensitive and trimmed")
	assert.False(t, hasAvailableSize(product, "12"))
	assert.False(t, hasAvailableSize(product, "9.5"))
}
