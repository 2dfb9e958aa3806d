package services

import (
	"context"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// Batch applies a Patcher to a list of jobs.
type Batch struct {
	patcher *Patcher
	logger  epubseries.Logger
}

// NewBatch creates a Batch. It panics on nil dependencies.
func NewBatch(patcher *Patcher, logger epubseries.Logger) *Batch {
	if patcher == nil {
		panic("patcher cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Batch{patcher: patcher, logger: logger}
}

// Run patches jobs in order. A failed book is logged and counted; the run
// continues with the next one. The policy returned by each book is passed
// to the next, so "apply to all" holds for the rest of the run.
//
// Cancellation is checked between books. On cancellation the summary of
// the books processed so far is returned with ctx.Err().
// Otherwise the error is non-nil (ErrBatchIncomplete) when any book failed.
func (b *Batch) Run(ctx context.Context, jobs []Job, policy epubseries.Policy) (*epubseries.Summary, error) {
	summary := &epubseries.Summary{}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			b.logger.Error("Run interrupted after %d of %d book(s)", summary.Total(), len(jobs))
			return summary, err
		}

		var res epubseries.FileResult
		res, policy = b.patcher.PatchFile(ctx, job, policy)
		summary.Add(res)
		b.report(res)
	}

	b.logger.Info("Result: %d applied, %d skipped, %d failed", summary.Applied, summary.Skipped, summary.Failed)
	return summary, summary.Err()
}

func (b *Batch) report(res epubseries.FileResult) {
	switch res.Outcome {
	case epubseries.OutcomeApplied:
		if res.DryRun {
			b.logger.Info("Preview: %s -> %s", res.Path, res.Series)
			return
		}
		b.logger.Info("Done: %s -> %s", res.Path, res.Series)
		if res.BackupPath != "" {
			b.logger.Verbose("Backup: %s", res.BackupPath)
		}
	case epubseries.OutcomeSkipped:
		b.logger.Info("Skipped: %s (%s)", res.Path, res.Reason)
	case epubseries.OutcomeFailed:
		b.logger.Error("%s: %v", res.Path, res.Err)
	}
}
