package cmd

import (
	"fmt"
	"strconv"

	"github.com/aschey/stopwatch/internal/stopwatch"
	"github.com/spf13/cobra"
)

var formatCmd = &cobra.Command{
	Use:     "format <milliseconds>...",
	Short:   "Prints durations as HH:MM:SS.CC",
	Example: "  stopwatch format 0 999 3661005",
	Args:    cobra.MinimumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			ms, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("parse %q: %w", arg, stopwatch.ErrInvalidInput)
			}
			out, err := stopwatch.Format(ms)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	},
}
