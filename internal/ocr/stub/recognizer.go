// Package stub provides an in-memory ocr.Recognizer for testing.
package stub

import (
	"context"

	"swap-ledger/internal/ocr"
)

// Recognizer implements ocr.Recognizer for testing. It returns the
// configured text or error for every image.
type Recognizer struct {
	Text  string
	Err   error
	Calls int
}

// NewRecognizer creates a stub that always returns text.
func NewRecognizer(text string) *Recognizer {
	return &Recognizer{Text: text}
}

// Recognize returns the configured result and counts the call.
func (r *Recognizer) Recognize(_ context.Context, _ []byte) (string, error) {
	r.Calls++
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

var _ ocr.Recognizer = (*Recognizer)(nil)
