package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TeoZler/epub-series-metadata-editor/internal/config"
	"github.com/TeoZler/epub-series-metadata-editor/internal/epub"
	"github.com/TeoZler/epub-series-metadata-editor/internal/logging"
	"github.com/TeoZler/epub-series-metadata-editor/internal/services"
	"github.com/TeoZler/epub-series-metadata-editor/internal/tui"
	"github.com/TeoZler/epub-series-metadata-editor/internal/tui/wizards"
	"github.com/TeoZler/epub-series-metadata-editor/internal/ui"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Ask for the settings, then apply them (default without arguments)",
	Long: `Interactive asks for the book or folder, the series, the index and the
options of apply, shows a summary, and runs after confirmation.

On a terminal the questions are shown as a full-screen form; otherwise they
are asked one line at a time on standard input.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// runInteractive is the root command: it collects the same settings as
// apply by asking for them, then runs.
func runInteractive(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	projectCfg, err := loadProjectConfig(".")
	if err != nil {
		return err
	}
	defaults := interactiveDefaults(projectCfg)

	ctx, cancel := signalContext()
	defer cancel()

	prompter := ui.NewPrompter()
	out := prompter.Output()

	var answers wizards.ApplyAnswers
	lineMode := !tui.IsInteractive()
	if lineMode {
		answers, err = askAnswers(ctx, prompter, defaults)
	} else {
		answers, err = wizards.NewApplyWizard(defaults).Run(ctx)
	}
	if errors.Is(err, tui.ErrCancelled) {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	paths, err := findBooks(answers.Path, answers.Recursive)
	if err != nil {
		if errors.Is(err, epubseries.ErrNoBooksFound) {
			fmt.Fprintln(out, "No EPUB files found")
		}
		return err
	}

	fmt.Fprintf(out, "\nFound %d EPUB file(s)\n%s\n\n", len(paths), answers.Summary())
	if lineMode {
		start, err := prompter.Confirm(ctx, "Start?", true)
		if err != nil {
			return err
		}
		if !start {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
	}

	settings := answersToSettings(answers, projectCfg)
	approver := approverWithPrompter(settings.Policy, verbose, prompter)
	jobs := services.Jobs(paths, answers.Series, answers.Index)
	return runJobs(ctx, cmd.OutOrStdout(), jobs, settings, approver, logger)
}

// interactiveDefaults seeds the questions from epubseries.yaml in the
// working directory.
func interactiveDefaults(cfg *config.ProjectConfig) wizards.ApplyAnswers {
	defaults := wizards.ApplyAnswers{
		Path:   ".",
		Backup: cfg.BackupEnabled(),
		Policy: epubseries.PolicyAsk,
	}
	if cfg == nil {
		return defaults
	}
	defaults.Recursive = cfg.Recursive
	if v, err := epubseries.ParseVocabularies(cfg.Vocabularies); err == nil && len(cfg.Vocabularies) > 0 {
		defaults.Legacy = v.Legacy
	}
	if p, err := epubseries.ParsePolicy(cfg.OnExisting); err == nil {
		defaults.Policy = p
	}
	return defaults
}

// askAnswers asks the questions one line at a time, for terminals where the
// full-screen wizard cannot run. An invalid index is reported and ignored.
func askAnswers(ctx context.Context, p *ui.Prompter, defaults wizards.ApplyAnswers) (wizards.ApplyAnswers, error) {
	answers := defaults
	out := p.Output()

	path, err := p.Ask(ctx, "Path to EPUB file or folder", firstNonEmpty(defaults.Path, "."))
	if err != nil {
		return answers, err
	}
	answers.Path = path

	if answers.Recursive, err = p.Confirm(ctx, "Include subfolders?", defaults.Recursive); err != nil {
		return answers, err
	}

	series, err := p.Ask(ctx, "Series name (empty = folder name)", defaults.Series)
	if err != nil {
		return answers, err
	}
	answers.Series = strings.TrimSpace(series)

	rawIndex, err := p.Ask(ctx, "Series index (optional)", "")
	if err != nil {
		return answers, err
	}
	answers.Index = nil
	if rawIndex != "" {
		idx, err := epubseries.ParseIndex(rawIndex)
		if err != nil {
			fmt.Fprintf(out, "Warning: %v, index ignored\n", err)
		} else {
			answers.Index = &idx
		}
	}

	if answers.Legacy, err = p.Confirm(ctx, "Also write calibre:series tags?", defaults.Legacy); err != nil {
		return answers, err
	}

	mode, err := p.Choose(ctx, "When a book already has a series: [i]nteractive, [f]orce, [s]kip",
		[]string{"i", "f", "s"}, policyLetter(defaults.Policy))
	if err != nil {
		return answers, err
	}
	if answers.Policy, err = epubseries.ParsePolicy(mode); err != nil {
		return answers, err
	}

	if answers.DryRun, err = p.Confirm(ctx, "Dry run?", defaults.DryRun); err != nil {
		return answers, err
	}
	if answers.Backup, err = p.Confirm(ctx, "Keep a backup of each book?", defaults.Backup); err != nil {
		return answers, err
	}
	return answers, nil
}

func policyLetter(p epubseries.Policy) string {
	switch p {
	case epubseries.PolicyForceAll:
		return "f"
	case epubseries.PolicySkipExisting:
		return "s"
	default:
		return "i"
	}
}

// answersToSettings turns answers into run settings. Backup placement still
// comes from the environment and epubseries.yaml.
func answersToSettings(a wizards.ApplyAnswers, cfg *config.ProjectConfig) runSettings {
	var fileBackup config.BackupConfig
	if cfg != nil {
		fileBackup = cfg.Backup
	}
	s := runSettings{
		Recursive:    a.Recursive,
		Vocabularies: a.Vocabularies(),
		Policy:       a.Policy,
		DryRun:       a.DryRun,
		LockRetries:  defaultLockRetries,
		Backup: epub.BackupOptions{
			Enabled: a.Backup,
			Dir:     firstNonEmpty(os.Getenv(config.EnvBackupDir), fileBackup.Dir),
			Base:    firstNonEmpty(os.Getenv(config.EnvBackupBase), fileBackup.Base),
			Suffix:  firstNonEmpty(fileBackup.Suffix, epubseries.DefaultBackupSuffix),
		},
	}
	if s.Backup.Dir != "" && s.Backup.Base == "" {
		s.Backup.Base = configDir(filepath.Clean(a.Path))
	}
	return s
}
