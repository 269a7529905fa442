package domain

import (
	"fmt"
	"time"
)

// Candidate is a fully parsed but not yet validated swap extracted from one
// screenshot section. It is ephemeral: consumed by the normalizer and then
// discarded.
type Candidate struct {
	Timestamp  time.Time
	FromToken  string
	ToToken    string
	FromAmount float64
	ToAmount   float64
}

// Describe renders the candidate for failure reporting.
func (c Candidate) Describe() string {
	return fmt.Sprintf("timestamp=%s from=%v %s to=%v %s",
		c.Timestamp.Format("2006/01/02 15:04:05"),
		c.FromAmount, c.FromToken,
		c.ToAmount, c.ToToken,
	)
}
