package usecase

import (
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shoefinder/backend/internal/domain"
)

// Size ranges recognised inside free text
const (
	minUSSize = 4
	maxUSSize = 15
	minEUSize = 35
	maxEUSize = 50
)

// decimalPattern matches plain sizes like 9 or 10.5 (no sign, exponent or hex)
var decimalPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// euToUSMen maps rounded EU sizes to US men's sizes.
// EU sizes in range but not listed here (49, 50) are kept as typed.
var euToUSMen = map[int]string{
	35: "4",
	36: "4.5",
	37: "5",
	38: "5.5",
	39: "6",
	40: "7",
	41: "8",
	42: "9",
	43: "10",
	44: "11",
	45: "12",
	46: "13",
	47: "14",
	48: "15",
}

// connectorWords introduce a size ("size 9", "taille 42") and carry no meaning on their own
var connectorWords = map[string]bool{
	"size":     true,
	"sizes":    true,
	"sz":       true,
	"taille":   true,
	"pointure": true,
}

// noiseWords describe every product in a shoe catalog, so they never narrow a search
var noiseWords = map[string]bool{
	"shoe":       true,
	"shoes":      true,
	"sneaker":    true,
	"sneakers":   true,
	"chaussure":  true,
	"chaussures": true,
	"basket":     true,
	"baskets":    true,
}

// QueryInterpreter turns raw search text into terms and a resolved size
type QueryInterpreter struct {
	enableDebugLogging bool
}

// NewQueryInterpreter creates a new query interpreter
func NewQueryInterpreter(enableDebugLogging bool) *QueryInterpreter {
	return &QueryInterpreter{
		enableDebugLogging: enableDebugLogging,
	}
}

// Interpret splits rawQuery into lowercase descriptive terms and resolves the shoe size.
// A non-blank explicitSize always wins over a size typed inside the query.
func (q *QueryInterpreter) Interpret(rawQuery, explicitSize string) domain.InterpretedQuery {
	var terms []string
	var textSize string

	for _, token := range strings.Fields(rawQuery) {
		token = strings.ToLower(token)

		switch {
		case isSizeToken(token):
			if textSize == "" {
				textSize = token
			}
		case connectorWords[token]:
		case noiseWords[token]:
		default:
			terms = append(terms, token)
		}
	}

	size := textSize
	if explicit := strings.TrimSpace(explicitSize); explicit != "" {
		size = explicit
	}

	result := domain.InterpretedQuery{
		Terms: terms,
		Size:  NormalizeSize(size),
	}
	if result.Terms == nil {
		result.Terms = []string{}
	}

	if q.enableDebugLogging {
		log.Printf("[INTERPRET] Input: %q (size %q) -> terms %q, size %q", rawQuery, explicitSize, result.Terms, result.Size)
	}

	return result
}

// NormalizeSize converts EU sizes to US men's sizes.
// Anything that is not a tabled EU size is returned unchanged.
func NormalizeSize(size string) string {
	if !decimalPattern.MatchString(size) {
		return size
	}

	n, err := strconv.ParseFloat(size, 64)
	if err != nil || n < minEUSize || n > maxEUSize {
		return size
	}

	if us, ok := euToUSMen[int(math.Round(n))]; ok {
		return us
	}
	return size
}

// isSizeToken reports whether token is a number in the US or EU size range
func isSizeToken(token string) bool {
	if !decimalPattern.MatchString(token) {
		return false
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return false
	}
	return (n >= minUSSize && n <= maxUSSize) || (n >= minEUSize && n <= maxEUSize)
}
