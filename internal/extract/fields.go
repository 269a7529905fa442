package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"swap-ledger/internal/domain"
)

// ParseFailure reports a section that could not yield a complete candidate.
type ParseFailure struct {
	Section string `json:"section"`
	Error   string `json:"error"`
}

// Extractor applies tolerant pattern matching to one section at a time.
// It is a pure function of its input text; all patterns are compiled once.
type Extractor struct {
	// OCR misreads a stylized "S" as the letter S where the digit 5 was
	// rendered ("S0 USDC" for "50 USDC").
	confusablePattern *regexp.Regexp

	// One swap leg: optional sign, quantity with optional thousands
	// separators, token symbol (possibly with a parenthetical qualifier),
	// then a parenthesized USD figure. The "$" is sometimes recognized
	// as "s".
	amountPattern *regexp.Regexp

	// Date plus time whose separators may be ":" or "." (OCR misreads
	// colons as periods). Tried in order, first match wins; the second
	// pattern tolerates a single-digit hour.
	timestampPatterns []*regexp.Regexp
}

// NewExtractor creates an Extractor with the default patterns.
func NewExtractor() *Extractor {
	return &Extractor{
		confusablePattern: regexp.MustCompile(`S(\d)`),
		amountPattern:     regexp.MustCompile(`([+-]?)\s*([\d,]+(?:\.\d+)?)\s*([a-zA-Z]+(?:\([^)]+\))?[a-zA-Z]*)\s*\([s$]?[\d,.]+\)`),
		timestampPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(\d{4}/\d{2}/\d{2})[\s.]+(\d{2})[.:](\d{2})[.:](\d{2})`),
			regexp.MustCompile(`(\d{4}/\d{2}/\d{2})[\s.]+(\d{1,2})[.:](\d{2})[.:](\d{2})`),
		},
	}
}

// legMatch is one amount/token occurrence found in a section.
type legMatch struct {
	sign   string // "+", "-", or "" when OCR dropped the sign
	amount float64
	token  string
}

// Extract recovers a swap candidate from one section. Exactly one of the
// return values is non-nil.
func (e *Extractor) Extract(section string) (*domain.Candidate, *ParseFailure) {
	// Digit-confusable correction must run before amount extraction.
	fixed := e.confusablePattern.ReplaceAllString(section, "5$1")

	b := &candidateBuilder{}

	if from, to, ok := e.resolveLegs(fixed); ok {
		b.setLegs(from, to)
	}

	if ts, ok := e.extractTimestamp(fixed); ok {
		b.setTimestamp(ts)
	}

	if missing := b.missing(); len(missing) > 0 {
		return nil, &ParseFailure{
			Section: section,
			Error:   "Missing fields: " + strings.Join(missing, ", "),
		}
	}

	return b.build(), nil
}

// resolveLegs finds all amount matches and decides which is the outgoing
// (from) and which the incoming (to) leg. OCR frequently drops the leading
// "+" on the inbound leg, so three sign combinations are accepted:
//
//	-/+        explicit, unambiguous
//	+/unsigned unsigned is the implicit outgoing leg
//	-/unsigned unsigned is the implicit incoming leg
//
// Anything else (0, 1, >2 matches, two unsigned, two same-signed) fails.
func (e *Extractor) resolveLegs(text string) (from, to legMatch, ok bool) {
	matches := e.amountPattern.FindAllStringSubmatch(text, -1)

	var legs []legMatch
	for _, m := range matches {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil {
			continue
		}
		legs = append(legs, legMatch{sign: m[1], amount: amount, token: m[3]})
	}

	if len(legs) != 2 {
		return legMatch{}, legMatch{}, false
	}

	var plus, minus, unsigned *legMatch
	for i := range legs {
		switch legs[i].sign {
		case "+":
			plus = &legs[i]
		case "-":
			minus = &legs[i]
		default:
			unsigned = &legs[i]
		}
	}

	switch {
	case plus != nil && minus != nil:
		return *minus, *plus, true
	case plus != nil && unsigned != nil:
		return *unsigned, *plus, true
	case minus != nil && unsigned != nil:
		return *minus, *unsigned, true
	}

	// Two unsigned or two same-signed: refuse to guess.
	return legMatch{}, legMatch{}, false
}

// extractTimestamp tries the timestamp patterns in priority order. A pattern
// that matches but fails to parse does not abort the scan; remaining patterns
// are still tried.
func (e *Extractor) extractTimestamp(text string) (time.Time, bool) {
	for _, pattern := range e.timestampPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		hour := m[2]
		if len(hour) == 1 {
			hour = "0" + hour
		}

		ts, err := time.Parse("2006/01/02 15:04:05", m[1]+" "+hour+":"+m[3]+":"+m[4])
		if err != nil {
			continue
		}
		return ts, true
	}
	return time.Time{}, false
}
