package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TeoZler/epub-series-metadata-editor/internal/config"
	"github.com/TeoZler/epub-series-metadata-editor/internal/epub"
	"github.com/TeoZler/epub-series-metadata-editor/internal/files/scanner"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// patchFlagValues holds the flags shared by apply and order.
type patchFlagValues struct {
	series       string
	index        string
	recursive    bool
	force        bool
	skipExisting bool
	dryRun       bool
	noBackup     bool
	backupDir    string
	backupBase   string
	backupSuffix string
	vocab        []string
	compatMeta   bool
	lockRetries  int
}

// runSettings is the resolved configuration of one run.
type runSettings struct {
	Recursive    bool
	Vocabularies epubseries.Vocabularies
	Policy       epubseries.Policy
	DryRun       bool
	Backup       epub.BackupOptions
	LockRetries  int
}

// defaultLockRetries is how often a locked book is retried before it fails.
const defaultLockRetries = 3

func addPatchFlags(cmd *cobra.Command, f *patchFlagValues) {
	cmd.Flags().StringVar(&f.series, "series", "",
		"Series name for every book (default: each book's folder name)")
	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false,
		"Include books in subfolders")
	cmd.Flags().BoolVar(&f.force, "force", false,
		"Replace existing series without asking")
	cmd.Flags().BoolVar(&f.skipExisting, "skip-existing", false,
		"Leave books that already have a series untouched")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false,
		"Report what would change without writing anything")
	cmd.Flags().BoolVar(&f.noBackup, "no-backup", false,
		"Do not keep a copy of each book before patching")
	cmd.Flags().StringVar(&f.backupDir, "backup-dir", "",
		"Write backups under this directory instead of next to each book\n"+
			"Precedence: --backup-dir > $"+config.EnvBackupDir+" > epubseries.yaml")
	cmd.Flags().StringVar(&f.backupBase, "backup-base", "",
		"Directory whose layout is mirrored under --backup-dir (default: the target folder)\n"+
			"Precedence: --backup-base > $"+config.EnvBackupBase+" > epubseries.yaml")
	cmd.Flags().StringVar(&f.backupSuffix, "backup-suffix", "",
		"Suffix appended to backup files (default .bak)")
	cmd.Flags().StringSliceVar(&f.vocab, "vocab", nil,
		"Series vocabularies to write: structured, legacy or both (default structured)")
	cmd.Flags().BoolVar(&f.compatMeta, "compat-meta", false,
		"Also write <meta name=\"calibre:series\"> tags (same as adding --vocab legacy)")
	cmd.Flags().IntVar(&f.lockRetries, "lock-retries", defaultLockRetries,
		"Retries with backoff while another program holds a book (0 = fail at once)")
}

// loadProjectConfig loads .env and epubseries.yaml from dir.
// Returns nil config if epubseries.yaml does not exist (not an error).
func loadProjectConfig(dir string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := config.Load(dir)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// configDir returns the directory searched for epubseries.yaml: the target
// itself when it is a directory, otherwise its parent.
func configDir(target string) string {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return target
	}
	return filepath.Dir(target)
}

// resolveSettings merges flags, environment, epubseries.yaml and defaults,
// in that order of precedence. changed reports whether a flag was set on the
// command line.
func resolveSettings(f patchFlagValues, cfg *config.ProjectConfig, changed func(string) bool, target string) (runSettings, error) {
	var s runSettings

	s.Recursive = f.recursive
	if !changed("recursive") && cfg != nil {
		s.Recursive = cfg.Recursive
	}

	vocab := epubseries.DefaultVocabularies()
	switch {
	case changed("vocab"):
		v, err := epubseries.ParseVocabularies(f.vocab)
		if err != nil {
			return s, err
		}
		vocab = v
	case cfg != nil && len(cfg.Vocabularies) > 0:
		v, err := epubseries.ParseVocabularies(cfg.Vocabularies)
		if err != nil {
			return s, fmt.Errorf("%s: %w", config.ConfigFileName, err)
		}
		vocab = v
	}
	if f.compatMeta {
		vocab.Legacy = true
	}
	s.Vocabularies = vocab

	switch {
	case f.force && f.skipExisting:
		return s, fmt.Errorf("--force and --skip-existing cannot be used together: %w", epubseries.ErrInvalidConfig)
	case f.force:
		s.Policy = epubseries.PolicyForceAll
	case f.skipExisting:
		s.Policy = epubseries.PolicySkipExisting
	case cfg != nil && cfg.OnExisting != "":
		p, err := epubseries.ParsePolicy(cfg.OnExisting)
		if err != nil {
			return s, fmt.Errorf("%s: %w", config.ConfigFileName, err)
		}
		s.Policy = p
	default:
		s.Policy = epubseries.PolicyAsk
	}

	s.DryRun = f.dryRun
	if f.lockRetries < 0 {
		return s, fmt.Errorf("--lock-retries must not be negative: %w", epubseries.ErrInvalidConfig)
	}
	s.LockRetries = f.lockRetries

	var fileBackup config.BackupConfig
	if cfg != nil {
		fileBackup = cfg.Backup
	}
	s.Backup = epub.BackupOptions{
		Enabled: !f.noBackup && cfg.BackupEnabled(),
		Dir:     firstNonEmpty(f.backupDir, os.Getenv(config.EnvBackupDir), fileBackup.Dir),
		Base:    firstNonEmpty(f.backupBase, os.Getenv(config.EnvBackupBase), fileBackup.Base),
		Suffix:  firstNonEmpty(f.backupSuffix, fileBackup.Suffix, epubseries.DefaultBackupSuffix),
	}
	if s.Backup.Dir != "" && s.Backup.Base == "" {
		s.Backup.Base = configDir(target)
	}

	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// parseIndexFlag returns nil for an empty value.
func parseIndexFlag(raw string) (*epubseries.Index, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	idx, err := epubseries.ParseIndex(raw)
	if err != nil {
		return nil, fmt.Errorf("--index: %w", err)
	}
	return &idx, nil
}

// findBooks lists the books under target, failing with ErrNoBooksFound when
// there are none.
func findBooks(target string, recursive bool) ([]string, error) {
	paths, err := scanner.NewScanner().FindBooks(target, recursive)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", target, epubseries.ErrNoBooksFound)
	}
	return paths, nil
}
