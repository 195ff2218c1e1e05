package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"setu/internal/cache"
	"setu/internal/config"
	"setu/internal/models"
)

// Result is the outcome of one verification attempt. It is ephemeral: only
// the status and boolean flag get written back to the user row, and only the
// summary (never the OCR text) is cached.
type Result struct {
	AttemptID  string                    `json:"attempt_id"`
	Status     models.VerificationStatus `json:"status"`
	IsVerified bool                      `json:"is_verified"`
	Reason     string                    `json:"reason"`
	Extracted  models.ExtractedFields    `json:"extracted_data"`
}

// Pipeline wires the verification stages together: resolve image, recognize
// text, classify and extract, optionally overlay, match against the master
// dataset, resolve a terminal status, persist it.
type Pipeline struct {
	OCR     *Chain
	Overlay FieldOverlay // nil when the overlay is disabled
	Users   UserStore
	Master  MasterStore
	Corr    *Corrections
}

// NewPipeline assembles the pipeline from configuration. Strategy ranking:
// Gemini structured JSON first when cloud OCR is enabled, Cloud Vision text
// detection when Google credentials are present, the local Tesseract worker
// always last.
func NewPipeline(cfg *config.Config, db *gorm.DB) (*Pipeline, error) {
	corr, err := LoadCorrections(cfg.CorrectionsFile)
	if err != nil {
		return nil, err
	}

	var strategies []TextRecognizer
	if cfg.UseCloudOCR && cfg.GeminiAPIKey != "" {
		strategies = append(strategies, NewGeminiRecognizer(cfg.GeminiAPIKey, cfg.GeminiModel))
	}
	if cfg.GoogleCredsFile != "" {
		strategies = append(strategies, NewVisionRecognizer(cfg.GoogleCredsFile))
	}
	strategies = append(strategies, LocalOCR())

	p := &Pipeline{
		OCR:    NewChain(strategies...),
		Users:  &GormUserStore{DB: db},
		Master: &GormMasterStore{DB: db},
		Corr:   corr,
	}
	if cfg.UseLLMOverlay && cfg.GroqAPIKey != "" {
		p.Overlay = NewGroqOverlay(cfg.GroqAPIKey, cfg.GroqModel, corr)
	}
	return p, nil
}

// VerifyDocument runs the whole pipeline for one uploaded document and
// persists the terminal status before returning. Every path resolves to one
// of VERIFIED, PENDING or FAILED with a human-readable reason; no error
// escapes this boundary.
func (p *Pipeline) VerifyDocument(ctx context.Context, userID uint, src ImageSource, role models.Role) Result {
	attemptID := uuid.NewString()
	fmt.Printf("verification %s: starting for user %d (%s)\n", attemptID, userID, role)

	image, err := src.Resolve(ctx)
	if err != nil {
		fmt.Printf("verification %s: image resolve failed: %v\n", attemptID, err)
		return p.finish(ctx, attemptID, userID, models.StatusFailed, false,
			"OCR failed to read document", models.ExtractedFields{})
	}

	text, err := p.OCR.Recognize(ctx, image)
	if err != nil || strings.TrimSpace(text) == "" {
		fmt.Printf("verification %s: no OCR text: %v\n", attemptID, err)
		return p.finish(ctx, attemptID, userID, models.StatusFailed, false,
			"OCR failed to read document", models.ExtractedFields{})
	}

	fields := Extract(text, role, p.Corr)

	if p.Overlay != nil {
		if overlayFields, oerr := p.Overlay.Extract(ctx, image); oerr != nil {
			fmt.Printf("verification %s: overlay unavailable: %v\n", attemptID, oerr)
		} else {
			fields.Overlay(overlayFields)
		}
	}

	if fields.FullName == "" && !fields.HasIdentifier() {
		return p.finish(ctx, attemptID, userID, models.StatusFailed, false,
			"Missing mandatory fields (Name or ID) in document", fields)
	}

	match, err := Match(ctx, p.Master, fields, role)
	if err != nil {
		fmt.Printf("verification %s: master lookup error: %v\n", attemptID, err)
		// Infrastructure failure is reviewable, not evidence of a bad document.
		return p.finish(ctx, attemptID, userID, models.StatusPending, false,
			"Database matching error", fields)
	}

	status := models.StatusPending
	if match.Matched {
		status = models.StatusVerified
	}
	return p.finish(ctx, attemptID, userID, status, match.Matched, match.Reason, fields)
}

// finish persists the verdict and caches the attempt summary. The
// is_verified flag is true exactly when the status is VERIFIED.
func (p *Pipeline) finish(ctx context.Context, attemptID string, userID uint, status models.VerificationStatus, isVerified bool, reason string, fields models.ExtractedFields) Result {
	if err := p.Users.UpdateVerification(ctx, userID, status, isVerified); err != nil {
		fmt.Printf("verification %s: failed to persist status for user %d: %v\n", attemptID, userID, err)
	}

	cache.PutSummary(ctx, userID, cache.Summary{
		AttemptID:  attemptID,
		Status:     string(status),
		IsVerified: isVerified,
		Reason:     reason,
		UpdatedAt:  time.Now(),
	})

	fmt.Printf("verification %s: result %s (%s)\n", attemptID, status, reason)
	return Result{
		AttemptID:  attemptID,
		Status:     status,
		IsVerified: isVerified,
		Reason:     reason,
		Extracted:  fields,
	}
}
