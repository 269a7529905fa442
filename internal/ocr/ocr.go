// Package ocr defines the text recognition boundary. The pipeline treats
// recognition as an injected collaborator so tests can run without a real
// OCR engine.
package ocr

import "context"

// Recognizer turns raw image bytes into plain text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}
