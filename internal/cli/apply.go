package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kicadops/kicad-layout/pkg/kicad/host"
	"github.com/kicadops/kicad-layout/pkg/kicad/pcb"
	"github.com/kicadops/kicad-layout/pkg/layout"
)

// layoutFileName is the conventional document name looked up in the
// board's project directory.
const layoutFileName = "layout.yaml"

var (
	applyLayoutPath string
	applyOutput     string
	applyDryRun     bool
	applyLogFile    string
)

var applyCmd = &cobra.Command{
	Use:   "apply <board.kicad_pcb>",
	Short: "Apply a layout document to a board file",
	Long: `Applies the placement document to components already on the board and
writes the board back out.

By default the document is ` + layoutFileName + ` in the board file's directory.
Document structure:

  origin: [x0, y0]          # mm offset added to all locations
  components:
    R1:
      location: [x, y]      # mm, absolute after origin offset
      rotation: 90          # degrees, absolute
      flip: false           # true = back side
      footprint:
        path: lib.pretty    # relative to the board's directory
        name: SomeFootprint
    J1:
      ...

All fields are optional per component; absent fields leave that attribute
unchanged. Components named in the document but missing from the board
are skipped. A footprint that cannot be loaded is reported and the
component's remaining fields still apply.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyLayoutPath, "layout", "l", "", "layout document path (default: "+layoutFileName+" next to the board)")
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "", "output board path (default: overwrite the input board)")
	applyCmd.Flags().BoolVarP(&applyDryRun, "dry-run", "n", false, "apply and report, but do not write the board")
	applyCmd.Flags().StringVar(&applyLogFile, "log-file", "", "additionally append the run log to this file")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	boardPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve board path: %w", err)
	}
	projDir := filepath.Dir(boardPath)

	layoutPath := applyLayoutPath
	if layoutPath == "" {
		layoutPath = filepath.Join(projDir, layoutFileName)
	}

	if applyLogFile != "" {
		f, err := os.OpenFile(applyLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	// Configuration errors abort before any mutation.
	doc, err := layout.LoadFile(layoutPath)
	if err != nil {
		return err
	}
	logger.Debug("layout document loaded", "path", layoutPath, "components", len(doc.Components))

	board, err := pcb.ParseFile(boardPath)
	if err != nil {
		return fmt.Errorf("failed to parse board %s: %w", boardPath, err)
	}
	logger.Debug("board loaded", "path", boardPath, "footprints", len(board.Footprints))

	report := layout.Apply(host.New(board, projDir), doc, logger)

	if applyDryRun {
		logger.Info("dry run, board not written")
		return nil
	}

	out := applyOutput
	if out == "" {
		out = boardPath
	}
	if err := board.WriteFile(out); err != nil {
		return err
	}
	logger.Info("board written", "path", out)

	// A partially applied layout is an accepted outcome; per-component
	// failures were already reported above.
	if len(report.Errors) > 0 {
		logger.Warn("some components failed", "errors", len(report.Errors))
	}

	return nil
}
