package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/TeoZler/epub-series-metadata-editor/internal/config"
	"github.com/TeoZler/epub-series-metadata-editor/internal/services"
	"github.com/TeoZler/epub-series-metadata-editor/internal/ui"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// signalContext returns a context cancelled on Ctrl+C or SIGTERM. The
// running book is always finished; the run stops before the next one.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, stopping after the current book...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// selectApprover picks the Approver for a run. --force approves everything;
// EPUBSERIES_NON_INTERACTIVE=1 keeps every existing series; otherwise the
// operator is asked on the terminal.
func selectApprover(policy epubseries.Policy, verbose bool) epubseries.Approver {
	return approverWithPrompter(policy, verbose, ui.NewPrompter())
}

// approverWithPrompter is selectApprover asking through p, so that a
// questionnaire and the replace prompts share one reader.
func approverWithPrompter(policy epubseries.Policy, verbose bool, p *ui.Prompter) epubseries.Approver {
	switch {
	case policy == epubseries.PolicyForceAll:
		return ui.NewForcedApprover(verbose)
	case os.Getenv(config.EnvNonInteractive) == "1":
		return ui.DecliningApprover{}
	default:
		return ui.NewInteractiveApprover(p)
	}
}

// runJobs patches jobs and prints the per-book table to out.
func runJobs(ctx context.Context, out io.Writer, jobs []services.Job, s runSettings, approver epubseries.Approver, logger epubseries.Logger) error {
	patcher, err := services.NewPatcher(approver, logger, services.PatchOptions{
		Vocabularies: s.Vocabularies,
		DryRun:       s.DryRun,
		Backup:       s.Backup,
		LockRetries:  s.LockRetries,
	})
	if err != nil {
		return err
	}

	logger.Verbose("Writing %s tags to %d book(s), on existing series: %s", s.Vocabularies, len(jobs), s.Policy)

	summary, runErr := services.NewBatch(patcher, logger).Run(ctx, jobs, s.Policy)
	if summary != nil && summary.Total() > 0 {
		fmt.Fprintln(out, renderSummary(summary))
	}
	return runErr
}

func renderSummary(summary *epubseries.Summary) string {
	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		outcome := r.Outcome.String()
		if r.DryRun && r.Outcome == epubseries.OutcomeApplied {
			outcome = "preview"
		}
		rows = append(rows, []string{r.Path, r.Series.String(), outcome, resultDetail(r)})
	}
	return renderTable([]string{"Book", "Series", "Result", "Detail"}, rows, nil)
}

func resultDetail(r epubseries.FileResult) string {
	switch r.Outcome {
	case epubseries.OutcomeFailed:
		if r.Err != nil {
			return r.Err.Error()
		}
	case epubseries.OutcomeSkipped:
		return r.Reason
	case epubseries.OutcomeApplied:
		if r.Existing != "" {
			return "replaced " + r.Existing
		}
	}
	return ""
}
