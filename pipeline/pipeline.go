package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gustavoconect/lideranca-regional-sub000/extractor"
	"github.com/gustavoconect/lideranca-regional-sub000/feedback"
	"github.com/gustavoconect/lideranca-regional-sub000/reporter"
	"github.com/gustavoconect/lideranca-regional-sub000/segmenter"
	"github.com/gustavoconect/lideranca-regional-sub000/storage"
)

// Store is what the pipeline persists through. *storage.Store satisfies it.
type Store interface {
	SaveUpload(ctx context.Context, rec storage.UploadRecord) (string, error)
	SaveUnitReport(ctx context.Context, rec storage.ReportRecord) error
	ReportExists(ctx context.Context, unitCode, reportDate string) (bool, error)
}

// Reporter generates the AI reports. *reporter.Reporter satisfies it.
type Reporter interface {
	UnitReport(ctx context.Context, unitCode string, comments []string) (string, error)
	RegionalSummary(ctx context.Context, reports map[string]string) (string, error)
}

// Config tunes a run. MinComments gates which units go to AI analysis;
// UnitDelay is the fixed pause between successive AI calls, kept under the
// provider's rate ceiling.
type Config struct {
	MinComments int
	UnitDelay   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinComments <= 0 {
		c.MinComments = 1
	}
	if c.UnitDelay <= 0 {
		c.UnitDelay = time.Second
	}
	return c
}

// Unit outcome statuses in RunSummary.
const (
	StatusAnalyzed = "analyzed"
	StatusSkipped  = "skipped"
)

// UnitResult is one unit's outcome within a run.
type UnitResult struct {
	UnitCode string `json:"unit_code"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Comments int    `json:"comments"`
}

// RunSummary is the end-of-run report: what was analyzed, what was skipped
// and why. NoUnitsFound distinguishes "wrong file" from a parse failure.
type RunSummary struct {
	UploadID        string       `json:"upload_id,omitempty"`
	ReportDate      string       `json:"report_date"`
	NoUnitsFound    bool         `json:"no_units_found"`
	Analyzed        int          `json:"analyzed"`
	Skipped         int          `json:"skipped"`
	Units           []UnitResult `json:"units,omitempty"`
	RegionalSummary string       `json:"regional_summary,omitempty"`
}

// Pipeline runs a survey-export PDF end to end: extract, segment, pull and
// sanitize feedback per unit, then generate and persist per-unit reports
// and a regional summary. One document at a time; no shared state between
// runs.
type Pipeline struct {
	store    Store
	reporter Reporter
	cfg      Config
	now      func() time.Time
}

func New(store Store, rep Reporter, cfg Config) *Pipeline {
	return &Pipeline{
		store:    store,
		reporter: rep,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
}

// Run processes an uploaded PDF. Extraction failure is fatal for the whole
// run; everything after segmentation is isolated per unit.
func (p *Pipeline) Run(ctx context.Context, filename, sourceURL string, pdfData []byte) (*RunSummary, error) {
	text, err := extractor.ExtractText(pdfData)
	if err != nil {
		return nil, err
	}

	uploadedAt := p.now()
	uploadID, err := p.store.SaveUpload(ctx, storage.UploadRecord{
		Filename:       filename,
		SourceURL:      sourceURL,
		UploadedAt:     uploadedAt,
		ExtractionDate: uploadedAt.Format("2006-01-02"),
		RawText:        text,
	})
	if err != nil {
		return nil, err
	}

	summary := p.RunFromText(ctx, text)
	summary.UploadID = uploadID
	return summary, nil
}

// RunFromText runs segmentation onward over already-extracted text, the
// entry point for reprocessing a stored upload. It always produces a
// summary: every failure past segmentation is per-unit and lands there as
// a skip, never as an error.
func (p *Pipeline) RunFromText(ctx context.Context, text string) *RunSummary {
	summary := &RunSummary{ReportDate: p.now().Format("2006-01-02")}

	spans := segmenter.Segment(text)
	if len(spans) == 0 {
		summary.NoUnitsFound = true
		log.Println("no units recognized in document")
		return summary
	}

	unitReports := make(map[string]string, len(spans))
	cancelled := false
	calledAI := false

	for _, span := range spans {
		// Cooperative cancellation: finish the current unit, then stop.
		// Already-saved reports stay valid.
		if err := ctx.Err(); err != nil {
			cancelled = true
			p.skip(summary, span.UnitCode, 0, "run cancelled")
			continue
		}

		exists, err := p.store.ReportExists(ctx, span.UnitCode, summary.ReportDate)
		if err != nil {
			log.Printf("❌ unit %s exists check failed: %v", span.UnitCode, err)
			p.skip(summary, span.UnitCode, 0, "exists check failed")
			continue
		}
		if exists {
			p.skip(summary, span.UnitCode, 0, "already analyzed")
			continue
		}

		ext := feedback.Extract(span)
		if len(ext.Comments) < p.cfg.MinComments {
			p.skip(summary, span.UnitCode, len(ext.Comments), "not enough comments")
			continue
		}

		// Fixed pause between successive AI calls, success or not.
		if calledAI {
			if err := wait(ctx, p.cfg.UnitDelay); err != nil {
				cancelled = true
				p.skip(summary, span.UnitCode, len(ext.Comments), "run cancelled")
				continue
			}
		}
		calledAI = true

		report, err := p.reporter.UnitReport(ctx, span.UnitCode, ext.Comments)
		if err != nil {
			reason := "analysis failed"
			if errors.Is(err, reporter.ErrRateLimited) {
				reason = "rate limited"
			}
			log.Printf("❌ unit %s skipped: %v", span.UnitCode, err)
			p.skip(summary, span.UnitCode, len(ext.Comments), reason)
			continue
		}

		if err := p.store.SaveUnitReport(ctx, storage.ReportRecord{
			UnitCode:     span.UnitCode,
			ReportDate:   summary.ReportDate,
			Report:       report,
			CommentCount: len(ext.Comments),
		}); err != nil {
			log.Printf("❌ unit %s report not saved: %v", span.UnitCode, err)
			p.skip(summary, span.UnitCode, len(ext.Comments), "save failed")
			continue
		}

		unitReports[span.UnitCode] = report
		summary.Analyzed++
		summary.Units = append(summary.Units, UnitResult{
			UnitCode: span.UnitCode,
			Status:   StatusAnalyzed,
			Comments: len(ext.Comments),
		})
	}

	if !cancelled && len(unitReports) > 0 {
		regional, err := p.reporter.RegionalSummary(ctx, unitReports)
		if err != nil {
			log.Printf("regional summary failed: %v", err)
		} else {
			summary.RegionalSummary = regional
		}
	}

	log.Printf("✅ run complete: %d analyzed, %d skipped", summary.Analyzed, summary.Skipped)
	return summary
}

func (p *Pipeline) skip(summary *RunSummary, unitCode string, comments int, reason string) {
	summary.Skipped++
	summary.Units = append(summary.Units, UnitResult{
		UnitCode: unitCode,
		Status:   StatusSkipped,
		Reason:   reason,
		Comments: comments,
	})
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
