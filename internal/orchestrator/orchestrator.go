// Package orchestrator provides E2E extraction orchestration.
// It coordinates: OCR → segmentation → field extraction → ledger → audit log
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"swap-ledger/internal/domain"
	"swap-ledger/internal/extract"
	"swap-ledger/internal/idhash"
	"swap-ledger/internal/ledger"
	"swap-ledger/internal/observability"
	"swap-ledger/internal/ocr"
	"swap-ledger/internal/storage"
)

// Orchestrator runs the screenshot-to-ledger pipeline for one image at a
// time. Flow: recognize → segment → extract → validate and store.
type Orchestrator struct {
	recognizer ocr.Recognizer
	extractor  *extract.Extractor
	ledger     *ledger.Service

	// Optional collaborators.
	auditLog storage.ExtractionLogStore
	notify   func(*ledger.Receipt)
	metrics  *observability.Metrics

	logger zerolog.Logger
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Recognizer ocr.Recognizer
	Extractor  *extract.Extractor
	Ledger     *ledger.Service

	// Optional: best-effort audit trail of every processed image.
	AuditLog storage.ExtractionLogStore
	// Optional: called once per stored transaction.
	Notify func(*ledger.Receipt)
	// Optional: pipeline counters and histograms.
	Metrics *observability.Metrics

	Logger zerolog.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		recognizer: opts.Recognizer,
		extractor:  opts.Extractor,
		ledger:     opts.Ledger,
		auditLog:   opts.AuditLog,
		notify:     opts.Notify,
		metrics:    opts.Metrics,
		logger:     opts.Logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Batch report statuses. A batch is a "success" only when at least one
// transaction was stored; "info" covers both empty images and batches where
// every candidate failed.
const (
	StatusSuccess = "success"
	StatusInfo    = "info"
)

// BatchReport summarizes one processed image.
type BatchReport struct {
	BatchID string                 `json:"batch_id"`
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Details []*ledger.Receipt      `json:"details,omitempty"`
	Failed  []extract.ParseFailure `json:"failed,omitempty"`
}

// ProcessImage runs the full pipeline on one screenshot. OCR failure is the
// only infrastructure error surfaced to the caller; every per-section problem
// is folded into the report instead.
func (o *Orchestrator) ProcessImage(ctx context.Context, image []byte) (*BatchReport, error) {
	receivedAt := time.Now().UTC()
	batchID := idhash.ComputeBatchID(image, receivedAt)
	logger := o.logger.With().Str("batch_id", batchID).Logger()

	ocrStart := time.Now()
	text, err := o.recognizer.Recognize(ctx, image)
	if err != nil {
		o.metrics.RecordImage("error")
		return nil, fmt.Errorf("recognize image: %w", err)
	}
	o.metrics.RecordOCRDuration(time.Since(ocrStart))

	sections := extract.Segment(text)
	o.metrics.RecordSections(len(sections))
	logger.Debug().Int("sections", len(sections)).Int("text_length", len(text)).Msg("image segmented")

	if len(sections) == 0 {
		report := &BatchReport{
			BatchID: batchID,
			Status:  StatusInfo,
			Message: "No transactions found in the image. Extracted: " + text,
		}
		o.metrics.RecordImage(StatusInfo)
		o.writeAudit(ctx, logger, batchID, image, report, len(sections), len(text))
		return report, nil
	}

	report := &BatchReport{BatchID: batchID}

	// M in the summary message counts candidates that reached validation;
	// sections that never parsed are reported only in the failure list.
	var attempted int

	for _, section := range sections {
		candidate, failure := o.extractor.Extract(section)
		if failure != nil {
			report.Failed = append(report.Failed, *failure)
			o.metrics.RecordParseFailure()
			continue
		}
		attempted++
		o.metrics.RecordCandidate()

		receipt, err := o.ledger.AddSwap(ctx, ledger.SwapInput{
			Timestamp:  candidate.Timestamp,
			FromToken:  candidate.FromToken,
			ToToken:    candidate.ToToken,
			FromAmount: candidate.FromAmount,
			ToAmount:   candidate.ToAmount,
		})
		if err != nil {
			if lerr := ledger.AsError(err); lerr != nil {
				report.Failed = append(report.Failed, extract.ParseFailure{
					Section: candidate.Describe(),
					Error:   lerr.Message,
				})
				if lerr.Kind == ledger.KindConflict {
					o.metrics.RecordDuplicateConflict()
				}
				continue
			}
			return nil, fmt.Errorf("store candidate: %w", err)
		}

		report.Details = append(report.Details, receipt)
		o.metrics.RecordTransactionStored()
		if o.notify != nil {
			o.notify(receipt)
		}
	}

	report.Status = StatusInfo
	if len(report.Details) > 0 {
		report.Status = StatusSuccess
	}
	report.Message = fmt.Sprintf("Added %d out of %d transactions from the image.",
		len(report.Details), attempted)

	logger.Info().
		Int("stored", len(report.Details)).
		Int("failed", len(report.Failed)).
		Msg("image processed")

	o.metrics.RecordImage(report.Status)
	o.writeAudit(ctx, logger, batchID, image, report, len(sections), len(text))
	return report, nil
}

// writeAudit records the batch in the extraction log. The log is an audit
// trail, not the system of record, so failures are logged and swallowed.
func (o *Orchestrator) writeAudit(ctx context.Context, logger zerolog.Logger, batchID string, image []byte, report *BatchReport, sections, textLength int) {
	if o.auditLog == nil {
		return
	}

	rec := &domain.ExtractionRecord{
		BatchID:     batchID,
		ImageSHA256: idhash.ImageSHA256(image),
		Status:      report.Status,
		Sections:    sections,
		Candidates:  len(report.Details) + len(report.Failed),
		Stored:      len(report.Details),
		Failed:      len(report.Failed),
		TextLength:  textLength,
		CreatedAt:   time.Now().UTC(),
	}

	if err := o.auditLog.Insert(ctx, rec); err != nil {
		logger.Warn().Err(err).Msg("extraction audit write failed")
	}
}
