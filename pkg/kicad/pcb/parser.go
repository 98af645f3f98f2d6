package pcb

import (
	"fmt"
	"io"
	"os"

	"github.com/kicadops/kicad-layout/pkg/kicad/sexp"
	"github.com/kicadops/kicad-layout/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version (6.0 = 20211014)
const MinSupportedVersion = 20211014

// ParseFile reads and parses a KiCad board file
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad board from an io.Reader
func Parse(r io.Reader) (*Board, error) {
	// Parse s-expressions directly from reader (streaming, no memory limit)
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	// The root should be a (kicad_pcb ...) expression
	root, ok := sexps[0].(*kicadsexp.List)
	if !ok || sexp.NodeName(root) != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", sexp.NodeName(sexps[0]))
	}

	version, generator, err := parseHeader(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	board := &Board{
		Version:   version,
		Generator: generator,
		root:      root,
	}

	if layersNode, found := sexp.FindNode(root, "layers"); found {
		layers, err := parseLayers(layersNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layers section: %w", err)
		}
		board.Layers = layers
	}

	nets, err := parseNets(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nets: %w", err)
	}
	board.Nets = nets

	// Net map for pad and track bindings
	netMap := NewNetMap(board.Nets)

	board.Tracks = parseTracks(root, netMap)

	footprints, err := parseFootprints(root, netMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprints: %w", err)
	}
	board.Footprints = footprints

	return board, nil
}

// parseHeader extracts version and generator information from the root node
// Expected format: (kicad_pcb (version 20221018) (generator pcbnew) ...)
func parseHeader(root *kicadsexp.List) (version int, generator string, err error) {
	versionNode, found := sexp.FindNode(root, "version")
	if !found {
		return 0, "", fmt.Errorf("missing required 'version' field")
	}

	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	// Must be KiCad 6.0 or later
	if ver < MinSupportedVersion {
		return 0, "", fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	gen := "unknown"
	if hostNode, found := sexp.FindNode(root, "host"); found {
		// Older format: (host pcbnew "(6.0.0)")
		if toolName, err := sexp.GetString(hostNode, 1); err == nil {
			gen = toolName
		}
	} else if genNode, found := sexp.FindNode(root, "generator"); found {
		// Newer format: (generator "pcbnew")
		if generatorName, err := sexp.GetString(genNode, 1); err == nil {
			gen = generatorName
		}
	}

	return ver, gen, nil
}

// parseLayers extracts layer definitions
// Expected format: (layers (0 "F.Cu" signal) (31 "B.Cu" signal) ...)
func parseLayers(node *kicadsexp.List) ([]Layer, error) {
	var layers []Layer

	for _, item := range node.Items()[1:] {
		layerNode, ok := item.(*kicadsexp.List)
		if !ok {
			continue
		}

		// Individual layer: (number "name" type)
		number, err := sexp.GetInt(layerNode, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer number: %w", err)
		}

		name, err := sexp.GetString(layerNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer name: %w", err)
		}

		layerType, err := sexp.GetString(layerNode, 2)
		if err != nil {
			// Layer type is optional in some cases
			layerType = "user"
		}

		layers = append(layers, Layer{
			Number: number,
			Name:   name,
			Type:   layerType,
		})
	}

	if len(layers) == 0 {
		return nil, fmt.Errorf("no layers defined")
	}

	return layers, nil
}

// parseNets extracts net definitions from the root node
// Expected format: (net 0 "") (net 1 "GND") ... as top-level nodes
func parseNets(root *kicadsexp.List) ([]Net, error) {
	netNodes := sexp.FindAllNodes(root, "net")

	// No nets is valid (minimal boards might have no nets)
	nets := make([]Net, 0, len(netNodes))

	for _, netNode := range netNodes {
		number, err := sexp.GetInt(netNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse net number: %w", err)
		}

		// Name is optional (net 0 often has an empty name)
		name := ""
		if nameStr, err := sexp.GetString(netNode, 2); err == nil {
			name = nameStr
		}

		nets = append(nets, Net{Number: number, Name: name})
	}

	return nets, nil
}

// parseTracks extracts copper segments.
// Expected format: (segment (start x y) (end x y) (width w) (layer "F.Cu") (net n))
func parseTracks(root *kicadsexp.List, netMap *NetMap) []Track {
	segmentNodes := sexp.FindAllNodes(root, "segment")
	tracks := make([]Track, 0, len(segmentNodes))

	for _, segNode := range segmentNodes {
		var track Track

		startNode, found := sexp.FindNode(segNode, "start")
		if !found {
			continue
		}
		start, err := sexp.GetPositionXY(startNode)
		if err != nil {
			continue
		}
		track.Start = start

		endNode, found := sexp.FindNode(segNode, "end")
		if !found {
			continue
		}
		end, err := sexp.GetPositionXY(endNode)
		if err != nil {
			continue
		}
		track.End = end

		if widthNode, found := sexp.FindNode(segNode, "width"); found {
			if width, err := sexp.GetFloat(widthNode, 1); err == nil {
				track.Width = width
			}
		}

		if layerNode, found := sexp.FindNode(segNode, "layer"); found {
			if layer, err := sexp.GetString(layerNode, 1); err == nil {
				track.Layer = layer
			}
		}

		if netNode, found := sexp.FindNode(segNode, "net"); found {
			if netNum, err := sexp.GetInt(netNode, 1); err == nil {
				if net, ok := netMap.GetByNumber(netNum); ok {
					track.Net = net
				}
			}
		}

		tracks = append(tracks, track)
	}

	return tracks
}

// parseFootprints extracts all footprint definitions from the root node
func parseFootprints(root *kicadsexp.List, netMap *NetMap) ([]*Footprint, error) {
	footprintNodes := sexp.FindAllNodes(root, "footprint")
	// Boards written before KiCad 6 used (module ...); the version gate
	// rejects those files, but be permissive about the node name anyway.
	footprintNodes = append(footprintNodes, sexp.FindAllNodes(root, "module")...)

	footprints := make([]*Footprint, 0, len(footprintNodes))

	for _, fpNode := range footprintNodes {
		footprint, err := FootprintFromNode(fpNode, netMap)
		if err != nil {
			// Skip footprints that fail to parse, the rest of the board
			// is still usable
			continue
		}
		footprints = append(footprints, footprint)
	}

	return footprints, nil
}
