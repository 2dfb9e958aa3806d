package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TeoZler/epub-series-metadata-editor/internal/checksum"
	"github.com/TeoZler/epub-series-metadata-editor/internal/epub"
	"github.com/TeoZler/epub-series-metadata-editor/internal/opf"
	"github.com/TeoZler/epub-series-metadata-editor/internal/retry"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// Job is one book and the series to write into it.
type Job struct {
	Path   string
	Series epubseries.Series
}

// PatchOptions are the per-run settings shared by every book.
type PatchOptions struct {
	Vocabularies epubseries.Vocabularies
	DryRun       bool
	Backup       epub.BackupOptions
	// LockRetries is how often a write is retried while another process
	// holds the book. Zero fails on the first locked attempt.
	LockRetries int

	// NewID overrides the collection identifier generator. Used by tests.
	NewID func() string
}

// Patcher patches one book at a time.
// Thread-Safety: NOT safe for concurrent use; the Approver prompts on a
// shared terminal.
type Patcher struct {
	approver epubseries.Approver
	logger   epubseries.Logger
	sums     checksum.Calculator
	retrier  *retry.Executor
	opts     PatchOptions
}

// NewPatcher creates a Patcher. It panics on nil dependencies and returns
// ErrInvalidConfig when no vocabulary is selected.
func NewPatcher(approver epubseries.Approver, logger epubseries.Logger, opts PatchOptions) (*Patcher, error) {
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if !opts.Vocabularies.Any() {
		return nil, fmt.Errorf("no vocabulary selected: %w", epubseries.ErrInvalidConfig)
	}
	retrier := retry.NewExecutor(retry.NewLockClassifier(), retry.NewExponentialBackoff(opts.LockRetries)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("%v; retry %d in %s", err, attempt+1, delay.Round(time.Millisecond))
		})
	return &Patcher{
		approver: approver,
		logger:   logger,
		sums:     checksum.New(),
		retrier:  retrier,
		opts:     opts,
	}, nil
}

// PatchFile patches one book and returns its result together with the policy
// to use for the next book. The policy only changes when the operator answers
// "all" to a confirmation.
//
// Errors never escape: they are reported in FileResult.Err with
// Outcome == OutcomeFailed.
func (p *Patcher) PatchFile(ctx context.Context, job Job, policy epubseries.Policy) (epubseries.FileResult, epubseries.Policy) {
	res := epubseries.FileResult{
		Path:   job.Path,
		Series: job.Series,
		DryRun: p.opts.DryRun,
	}
	fail := func(err error) (epubseries.FileResult, epubseries.Policy) {
		res.Outcome = epubseries.OutcomeFailed
		res.Err = err
		return res, policy
	}
	skip := func(reason string, err error) (epubseries.FileResult, epubseries.Policy) {
		res.Outcome = epubseries.OutcomeSkipped
		res.Reason = reason
		res.Err = err
		return res, policy
	}

	doc, err := epub.ReadPackageDocument(job.Path)
	if err != nil {
		return fail(err)
	}
	p.logger.Verbose("%s: package document %s", job.Path, doc.Entry)

	existing, found, err := opf.ReadSeries(doc.Content, doc.Entry)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", job.Path, err))
	}

	if found {
		res.Existing = existing
		switch policy {
		case epubseries.PolicySkipExisting:
			return skip(fmt.Sprintf("already has series %q", existing), nil)
		case epubseries.PolicyAsk:
			decision, err := p.approver.ConfirmReplace(ctx, epubseries.ReplaceRequest{
				Book:     job.Path,
				Existing: existing,
				Proposed: job.Series,
			})
			if err != nil {
				return fail(fmt.Errorf("confirmation failed: %w", err))
			}
			policy = policy.Escalate(decision)
			switch {
			case decision == epubseries.DecisionSkip:
				return skip("skipped by user", nil)
			case !decision.Replaces():
				return skip(fmt.Sprintf("kept series %q", existing), epubseries.ErrApprovalDenied)
			}
		default:
			p.logger.Verbose("%s: replacing series %q", job.Path, existing)
		}
	}

	// Inject works on the bytes as stored, not the sanitized copy used for
	// reading, so duplicate attributes outside the metadata body survive.
	patched, err := opf.Inject(doc.Content, job.Series, opf.InjectOptions{
		Vocabularies: p.opts.Vocabularies,
		Path:         doc.Entry,
		NewID:        p.opts.NewID,
	})
	if err != nil {
		return fail(fmt.Errorf("%s: %w", job.Path, err))
	}

	if checksum.Same(p.sums, doc.Content, patched) {
		res.Unchanged = true
		return skip("already up to date", nil)
	}

	if p.opts.DryRun {
		res.Outcome = epubseries.OutcomeApplied
		return res, policy
	}

	var written *epub.RewriteResult
	err = p.retrier.Execute(ctx, func(ctx context.Context) error {
		var rewriteErr error
		written, rewriteErr = epub.Rewrite(ctx, epub.RewriteRequest{
			Path:    job.Path,
			Entry:   doc.Entry,
			Content: patched,
			Backup:  p.opts.Backup,
		})
		return rewriteErr
	})
	if err != nil {
		if errors.Is(err, epubseries.ErrArchiveLocked) {
			return fail(err)
		}
		return fail(fmt.Errorf("%s: %w", job.Path, err))
	}

	res.Outcome = epubseries.OutcomeApplied
	res.BackupPath = written.BackupPath
	p.logger.Verbose("%s: %s -> %s (%d entries)", job.Path,
		checksum.Short(p.sums.CalculateRaw(doc.Content)), checksum.Short(p.sums.CalculateRaw(patched)), written.Entries)
	return res, policy
}
