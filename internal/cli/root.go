package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kicad-layout",
	Short: "Apply declarative placement documents to KiCad boards",
	Long: `kicad-layout moves, rotates, flips, and re-footprints components
already placed on a KiCad board (.kicad_pcb) according to a layout.yaml
file in the board's project directory.

The layout document is typically generated by a script; kicad-layout only
applies it, it never computes placements itself.

Examples:
  kicad-layout apply board.kicad_pcb            # apply layout.yaml next to the board
  kicad-layout apply board.kicad_pcb --dry-run  # report without writing
  kicad-layout components board.kicad_pcb       # list placed components
  kicad-layout check layout.yaml                # validate a layout document`,
	Version:       "0.2.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := charmlog.InfoLevel
		if verbose {
			level = charmlog.DebugLevel
		}
		ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
		cmd.SetContext(ctx)
	},
}

// Execute runs the CLI and returns an error if any command fails.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
