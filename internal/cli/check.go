package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kicadops/kicad-layout/pkg/layout"
)

var checkCmd = &cobra.Command{
	Use:   "check <layout.yaml>",
	Short: "Parse and summarize a layout document",
	Long: `Parses a layout document without touching any board and shows what it
requests per component. There is no schema validation beyond structure;
unknown reference designators can only be detected against a board.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	doc, err := layout.LoadFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Origin: (%.3f, %.3f) mm\n", doc.Origin.X, doc.Origin.Y)
	fmt.Printf("Components: %d\n\n", len(doc.Components))

	refs := make([]string, 0, len(doc.Components))
	for ref := range doc.Components {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	for _, ref := range refs {
		spec := doc.Components[ref]
		var fields []string

		if spec.Location != nil {
			fields = append(fields, fmt.Sprintf("location (%.3f, %.3f)",
				doc.Origin.X+spec.Location.X, doc.Origin.Y+spec.Location.Y))
		}
		if spec.Rotation != nil {
			fields = append(fields, fmt.Sprintf("rotation %.1f°", *spec.Rotation))
		}
		if side := spec.Side(); side != nil {
			if *side {
				fields = append(fields, "back side")
			} else {
				fields = append(fields, "front side")
			}
		}
		if spec.Footprint != nil {
			fields = append(fields, fmt.Sprintf("footprint %s (%s)",
				spec.Footprint.Name, spec.Footprint.Path))
		}

		if len(fields) == 0 {
			fields = append(fields, "no changes")
		}
		fmt.Printf("  %-8s %s\n", ref, strings.Join(fields, ", "))
	}

	return nil
}
