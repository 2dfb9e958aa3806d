package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/TeoZler/epub-series-metadata-editor/internal/library"
	"github.com/TeoZler/epub-series-metadata-editor/internal/logging"
	"github.com/TeoZler/epub-series-metadata-editor/internal/services"
	"github.com/TeoZler/epub-series-metadata-editor/internal/tui"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

var orderCmd = &cobra.Command{
	Use:   "order <folder>",
	Short: "Number the books of each folder as one series",
	Long: `Order treats every folder as one series and numbers its books 1..n.

On a terminal, each folder opens a list in which the books can be moved into
reading order (shift+up/down or K/J, enter to confirm, q to leave that folder
out). Otherwise, or with --natural, books are numbered in natural file-name
order, so "Book 2" comes before "Book 10".

Examples:
  epubseries order ./Discworld
  epubseries order ./Library --recursive --natural --dry-run`,
	Args: RequireBookPath,
	RunE: runOrder,
}

var (
	orderFlags   patchFlagValues
	orderNatural bool
)

func init() {
	rootCmd.AddCommand(orderCmd)
	addPatchFlags(orderCmd, &orderFlags)
	orderCmd.Flags().BoolVar(&orderNatural, "natural", false,
		"Use natural file-name order without showing the reorder list")
}

func selectReorderer(natural bool) epubseries.Reorderer {
	if natural || !tui.IsInteractive() {
		return library.NaturalOrder{}
	}
	return tui.NewReorderWidget()
}

func runOrder(cmd *cobra.Command, args []string) error {
	target := args[0]
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	projectCfg, err := loadProjectConfig(configDir(target))
	if err != nil {
		return err
	}
	settings, err := resolveSettings(orderFlags, projectCfg, cmd.Flags().Changed, target)
	if err != nil {
		return err
	}

	paths, err := findBooks(target, settings.Recursive)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	jobs, err := services.OrderJobs(ctx, paths, strings.TrimSpace(orderFlags.series), selectReorderer(orderNatural), logger)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		logger.Info("Nothing to do")
		return nil
	}
	return runJobs(ctx, cmd.OutOrStdout(), jobs, settings, selectApprover(settings.Policy, verbose), logger)
}
