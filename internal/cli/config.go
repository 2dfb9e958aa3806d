package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TeoZler/epub-series-metadata-editor/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage epubseries.yaml",
}

var configInitCmd = &cobra.Command{
	Use:   "init [folder]",
	Short: "Write an epubseries.yaml with the default settings",
	Long: `Init writes epubseries.yaml into folder (default: the current folder).
The file is read by apply and order when they run on that folder or on a
book inside it.

Examples:
  epubseries config init
  epubseries config init ./Library --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing epubseries.yaml")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	path, err := config.Save(dir, config.Default(), configInitForce)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
