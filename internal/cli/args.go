package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireBookPath validates that exactly one path argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireBookPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <path>

Usage: %s

Example:
  %s ./Discworld --series "Discworld" --index 2`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
