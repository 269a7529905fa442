package extract

import (
	"time"

	"swap-ledger/internal/domain"
)

// Field names as reported in parse failures, in fixed order.
var requiredFields = []string{"timestamp", "from_token", "to_token", "from_amount", "to_amount"}

// candidateBuilder accumulates fields as they are matched and performs one
// completeness check before conversion to the immutable candidate.
type candidateBuilder struct {
	timestamp  *time.Time
	fromToken  *string
	toToken    *string
	fromAmount *float64
	toAmount   *float64
}

func (b *candidateBuilder) setLegs(from, to legMatch) {
	b.fromToken = &from.token
	b.fromAmount = &from.amount
	b.toToken = &to.token
	b.toAmount = &to.amount
}

func (b *candidateBuilder) setTimestamp(ts time.Time) {
	b.timestamp = &ts
}

// missing returns the names of all absent required fields, in fixed order.
func (b *candidateBuilder) missing() []string {
	present := map[string]bool{
		"timestamp":   b.timestamp != nil,
		"from_token":  b.fromToken != nil,
		"to_token":    b.toToken != nil,
		"from_amount": b.fromAmount != nil,
		"to_amount":   b.toAmount != nil,
	}

	var missing []string
	for _, f := range requiredFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// build converts the accumulated fields into a candidate. Callers must have
// verified completeness via missing().
func (b *candidateBuilder) build() *domain.Candidate {
	return &domain.Candidate{
		Timestamp:  *b.timestamp,
		FromToken:  *b.fromToken,
		ToToken:    *b.toToken,
		FromAmount: *b.fromAmount,
		ToAmount:   *b.toAmount,
	}
}
