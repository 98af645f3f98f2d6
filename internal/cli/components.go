package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kicadops/kicad-layout/pkg/kicad/pcb"
)

var componentsCmd = &cobra.Command{
	Use:   "components <board.kicad_pcb>",
	Short: "List placed components on a board",
	Long: `Displays every placed component with its position, rotation, and board
side, plus a board summary. Useful for checking what a layout document
did (or would do) to a board.`,
	Args: cobra.ExactArgs(1),
	RunE: runComponents,
}

func init() {
	rootCmd.AddCommand(componentsCmd)
}

func runComponents(cmd *cobra.Command, args []string) error {
	board, err := pcb.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to parse board: %w", err)
	}

	fmt.Printf("Board: %d components, %d nets, %d layers\n",
		len(board.Footprints), len(board.Nets), len(board.Layers))

	bbox := board.GetBoundingBox()
	if !bbox.IsEmpty() {
		fmt.Printf("Size: %.2f x %.2f mm, center (%.2f, %.2f) mm\n",
			bbox.Width(), bbox.Height(), bbox.Center().X, bbox.Center().Y)
	}
	fmt.Println()

	fmt.Printf("%-8s %-14s %-34s %10s %10s %8s %-5s\n",
		"Ref", "Value", "Footprint", "X (mm)", "Y (mm)", "Rot", "Side")
	fmt.Println("──────────────────────────────────────────────────────────────────────────────────────────────")

	footprints := make([]*pcb.Footprint, len(board.Footprints))
	copy(footprints, board.Footprints)
	sort.Slice(footprints, func(i, j int) bool {
		return footprints[i].Reference < footprints[j].Reference
	})

	for _, fp := range footprints {
		side := "front"
		if fp.IsFlipped() {
			side = "back"
		}
		fmt.Printf("%-8s %-14s %-34s %10.3f %10.3f %8.1f %-5s\n",
			fp.Reference, fp.Value, fp.FullID(),
			fp.Position.X, fp.Position.Y, float64(fp.Position.Angle), side)
	}

	return nil
}
