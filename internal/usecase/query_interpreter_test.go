package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryInterpreter(t *testing.T) {
	t.Run("creates interpreter with debug logging disabled", func(t *testing.T) {
		q := NewQueryInterpreter(false)
		if q.enableDebugLogging {
			t.Error("expected debug logging to be disabled")
		}
	})

	t.Run("creates interpreter with debug logging enabled", func(t *testing.T) {
		q := NewQueryInterpreter(true)
		if !q.enableDebugLogging {
			t.Error("expected debug logging to be enabled")
		}
	})
}

func TestInterpret(t *testing.T) {
	q := NewQueryInterpreter(false)

	testCases := []struct {
		name         string
		rawQuery     string
		explicitSize string
		wantTerms    []string
		wantSize     string
	}{
		{
			name:      "extracts US size from text",
			rawQuery:  "men runner 9",
			wantTerms: []string{"men", "runner"},
			wantSize:  "9",
		},
		{
			name:      "lowercases terms and keeps order",
			rawQuery:  "Wool RUNNER Mizzle",
			wantTerms: []string{"wool", "runner", "mizzle"},
			wantSize:  "",
		},
		{
			name:      "drops connector and noise words",
			rawQuery:  "tree shoes size 10",
			wantTerms: []string{"tree"},
			wantSize:  "10",
		},
		{
			name:      "drops french connector and noise words",
			rawQuery:  "chaussures laine taille 42",
			wantTerms: []string{"laine"},
			wantSize:  "9",
		},
		{
			name:      "converts EU size found in text",
			rawQuery:  "runner 44",
			wantTerms: []string{"runner"},
			wantSize:  "11",
		},
		{
			name:      "first size token wins and later ones are discarded",
			rawQuery:  "runner 9 10",
			wantTerms: []string{"runner"},
			wantSize:  "9",
		},
		{
			name:      "numbers outside size ranges stay as terms",
			rawQuery:  "classic 990 20",
			wantTerms: []string{"classic", "990", "20"},
			wantSize:  "",
		},
		{
			name:      "half sizes are recognised",
			rawQuery:  "dasher 9.5",
			wantTerms: []string{"dasher"},
			wantSize:  "9.5",
		},
		{
			name:         "explicit size overrides text size",
			rawQuery:     "runner 9",
			explicitSize: "42",
			wantTerms:    []string{"runner"},
			wantSize:     "9",
		},
		{
			name:         "explicit US size passes through",
			rawQuery:     "runner 44",
			explicitSize: "10",
			wantTerms:    []string{"runner"},
			wantSize:     "10",
		},
		{
			name:         "blank explicit size is ignored",
			rawQuery:     "runner 8",
			explicitSize: "  ",
			wantTerms:    []string{"runner"},
			wantSize:     "8",
		},
		{
			name:      "empty query yields no terms",
			rawQuery:  "   ",
			wantTerms: []string{},
			wantSize:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := q.Interpret(tc.rawQuery, tc.explicitSize)
			assert.Equal(t, tc.wantTerms, got.Terms)
			assert.Equal(t, tc.wantSize, got.Size)
		})
	}
}

func TestInterpret_ExplicitSizeConversionWins(t *testing.T) {
	q := NewQueryInterpreter(false)

	got := q.Interpret("runner 9", "43")

	assert.Equal(t, "10", got.Size, "explicit EU 43 should convert to US 10 and beat the 9 in the text")
}

func TestInterpret_Deterministic(t *testing.T) {
	q := NewQueryInterpreter(false)

	first := q.Interpret("Women Tree Dasher size 38", "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, q.Interpret("Women Tree Dasher size 38", ""))
	}
}

func TestNormalizeSize(t *testing.T) {
	t.Run("EU table is total over 35 to 48", func(t *testing.T) {
		want := map[string]string{
			"35": "4", "36": "4.5", "37": "5", "38": "5.5", "39": "6",
			"40": "7", "41": "8", "42": "9", "43": "10", "44": "11",
			"45": "12", "46": "13", "47": "14", "48": "15",
		}
		for eu, us := range want {
			assert.Equal(t, us, NormalizeSize(eu), "EU %s", eu)
		}
	})

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"EU size outside table returns input", "49", "49"},
		{"top of EU range returns input", "50", "50"},
		{"fractional EU size rounds to nearest", "41.6", "9"},
		{"half EU size rounds up", "42.5", "10"},
		{"US size passes through unchanged", "9", "9"},
		{"US size keeps original spelling", "09", "09"},
		{"non-numeric size passes through", "M9/W10", "M9/W10"},
		{"exponent form is not converted", "4.2e1", "4.2e1"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeSize(tc.in))
		})
	}
}

func TestIsSizeToken(t *testing.T) {
	assert.True(t, isSizeToken("4"))
	assert.True(t, isSizeToken("15"))
	assert.True(t, isSizeToken("35"))
	assert.True(t, isSizeToken("50"))
	assert.True(t, isSizeToken("10.5"))

	assert.False(t, isSizeToken("3"))
	assert.False(t, isSizeToken("16"))
	assert.False(t, isSizeToken("34"))
	assert.False(t, isSizeToken("51"))
	assert.False(t, isSizeToken("nan"))
	assert.False(t, isSizeToken("runner"))

	for _, token := range []string{"1e1", "0x9p0", "+9", "9.", ".5", "4.2e1", "inf"} {
		assert.False(t, isSizeToken(token), "token %q is not a plain decimal", token)
	}
}

func TestInterpret_NonDecimalNumbersStayTerms(t *testing.T) {
	q := NewQueryInterpreter(false)

	got := q.Interpret("runner 1e1 0x9p0 +9", "")

	assert.Equal(t, []string{"runner", "1e1", "0x9p0", "+9"}, got.Terms)
	assert.Equal(t, "", got.Size)
}
