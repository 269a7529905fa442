package domain

import "time"

// Extraction batch statuses.
const (
	ExtractionStatusSuccess = "success"
	ExtractionStatusInfo    = "info"
)

// ExtractionRecord is one audit row per processed screenshot batch.
// Corresponds to the extraction_log table in ClickHouse.
type ExtractionRecord struct {
	BatchID     string    // deterministic hash of the image upload
	ImageSHA256 string    // hex digest of the raw image bytes
	Status      string    // "success" | "info"
	Sections    int       // sections the segmenter produced
	Candidates  int       // candidates that reached the normalizer
	Stored      int       // transactions actually written
	Failed      int       // parse + normalization failures
	TextLength  int       // length of the recognized text
	CreatedAt   time.Time // when the batch was processed
}
