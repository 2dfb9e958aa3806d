package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TeoZler/epub-series-metadata-editor/internal/logging"
	"github.com/TeoZler/epub-series-metadata-editor/internal/services"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "List the series each book currently declares",
	Long: `Show reads each book and prints the series it declares, the series index,
and which tag vocabulary the series was read from. Nothing is written.

When a book declares a series in more than one vocabulary, the EPUB 3
collection wins over the calibre element, which wins over calibre meta tags.

Examples:
  epubseries show ./Discworld
  epubseries show ./Library --recursive`,
	Args: RequireBookPath,
	RunE: runShow,
}

var showRecursive bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVarP(&showRecursive, "recursive", "r", false, "Include books in subfolders")
}

func runShow(cmd *cobra.Command, args []string) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	paths, err := findBooks(args[0], showRecursive)
	if err != nil {
		return err
	}

	rows, failed := showRows(paths, logger)
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Book", "Series", "Index", "Source", "Package document"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))

	if failed > 0 {
		return fmt.Errorf("%d of %d book(s) could not be read: %w", failed, len(paths), epubseries.ErrBatchIncomplete)
	}
	return nil
}

func showRows(paths []string, logger epubseries.Logger) ([][]string, int) {
	rows := make([][]string, 0, len(paths))
	failed := 0
	for _, p := range paths {
		info, err := services.Inspect(p)
		if err != nil {
			logger.Error("%v", err)
			rows = append(rows, []string{p, "(unreadable)", "", "", ""})
			failed++
			continue
		}
		if !info.HasSeries {
			rows = append(rows, []string{p, "-", "", "", info.Entry})
			continue
		}
		logger.Verbose("%s: %d declaration(s)", p, len(info.Declarations))
		rows = append(rows, []string{p, info.Series.Name, info.Series.Index, info.Series.Source.String(), info.Entry})
	}
	return rows, failed
}
