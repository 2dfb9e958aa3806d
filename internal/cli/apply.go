package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/TeoZler/epub-series-metadata-editor/internal/logging"
	"github.com/TeoZler/epub-series-metadata-editor/internal/services"
)

var applyCmd = &cobra.Command{
	Use:   "apply <path>",
	Short: "Write a series into one book or every book in a folder",
	Long: `Apply writes a series declaration into the package document of each book.

The series name defaults to the name of the folder containing each book.
Existing series declarations are replaced; by default you are asked first
for each book that already has one (answer y, N, a for all remaining, or skip).

Arguments:
  path    An .epub file or a folder of .epub files

Configuration:
  Settings are read from epubseries.yaml in the target folder (or the folder
  of the target file) and from .env. Command line flags take precedence over
  environment variables, which take precedence over epubseries.yaml.

Examples:
  # Folder name becomes the series of every book in it
  epubseries apply ./Discworld

  # Explicit series and position for one book
  epubseries apply "./Discworld/Mort.epub" --series Discworld --index 4

  # Write both the EPUB 3 and the calibre tags, replacing without asking
  epubseries apply ./Library --recursive --vocab both --force

  # Preview only
  epubseries apply ./Library -r --dry-run`,
	Args: RequireBookPath,
	RunE: runApply,
}

var applyFlags patchFlagValues

func init() {
	rootCmd.AddCommand(applyCmd)
	addPatchFlags(applyCmd, &applyFlags)
	applyCmd.Flags().StringVar(&applyFlags.index, "index", "",
		"Series position written to every book, e.g. 2, 2.5 or 5/2")
}

func runApply(cmd *cobra.Command, args []string) error {
	target := args[0]
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	projectCfg, err := loadProjectConfig(configDir(target))
	if err != nil {
		return err
	}
	settings, err := resolveSettings(applyFlags, projectCfg, cmd.Flags().Changed, target)
	if err != nil {
		return err
	}
	index, err := parseIndexFlag(applyFlags.index)
	if err != nil {
		return err
	}

	paths, err := findBooks(target, settings.Recursive)
	if err != nil {
		return err
	}
	logger.Info("Found %d EPUB file(s)", len(paths))

	ctx, cancel := signalContext()
	defer cancel()

	jobs := services.Jobs(paths, strings.TrimSpace(applyFlags.series), index)
	return runJobs(ctx, cmd.OutOrStdout(), jobs, settings, selectApprover(settings.Policy, verbose), logger)
}
