package pcb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kicadops/kicad-layout/pkg/kicad/sexp"
	"github.com/kicadops/kicad-layout/pkg/kicad/sexp/kicadsexp"
)

// Footprint represents a placed component footprint. Mutating methods
// update both the model fields and the backing s-expression node.
type Footprint struct {
	Library   string        // Library nickname (e.g., "Resistor_SMD")
	Name      string        // Footprint name within the library
	Reference string        // Reference designator (e.g., "R1")
	Value     string        // Component value
	Layer     string        // Placement layer (F.Cu or B.Cu)
	Position  PositionAngle // Position in mm and rotation in degrees
	Pads      []Pad         // Pads

	node *kicadsexp.List
}

// Pad represents a footprint pad
type Pad struct {
	Number   string        // Pad number/name
	Type     string        // Pad type (thru_hole, smd, connect, np_thru_hole)
	Shape    string        // Pad shape (circle, rect, oval, roundrect, ...)
	Position PositionAngle // Position relative to the footprint anchor
	Size     Size          // Pad size
	Drill    float64       // Drill diameter (0 for SMD)
	Layers   LayerSet      // Layers the pad appears on
	Net      *Net          // Connected net (if any)

	node *kicadsexp.List
}

// FullID returns the footprint identifier as stored in board files,
// "Library:Name", or just the name for library-local footprints.
func (fp *Footprint) FullID() string {
	if fp.Library == "" {
		return fp.Name
	}
	return fp.Library + ":" + fp.Name
}

// SetID renames the footprint identifier, updating the "Library:Name"
// atom in the node. Legacy (module ...) nodes are normalized to the
// (footprint ...) form board files use.
func (fp *Footprint) SetID(library, name string) error {
	if fp.node == nil || fp.node.Len() < 2 {
		return fmt.Errorf("footprint has no backing node")
	}
	fp.Library = library
	fp.Name = name
	fp.node.Set(0, kicadsexp.Symbol("footprint"))
	fp.node.Set(1, kicadsexp.String(fp.FullID()))
	return nil
}

// IsFlipped reports whether the footprint sits on the back of the board.
func (fp *Footprint) IsFlipped() bool {
	return strings.HasPrefix(fp.Layer, "B.")
}

// FootprintFromNode builds a footprint from a parsed (footprint ...) node.
// The legacy (module ...) form used by .kicad_mod files before KiCad 6 is
// accepted too. netMap may be nil for library footprints, which carry no
// net bindings.
func FootprintFromNode(node *kicadsexp.List, netMap *NetMap) (*Footprint, error) {
	name := sexp.NodeName(node)
	if name != "footprint" && name != "module" {
		return nil, fmt.Errorf("expected footprint node, got %q", name)
	}

	fp := &Footprint{node: node}

	// Footprint id, "library:name" or bare name
	id, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}
	if lib, fpName, ok := strings.Cut(id, ":"); ok {
		fp.Library = lib
		fp.Name = fpName
	} else {
		fp.Name = id
	}

	// Placement layer; library footprints default to the front
	fp.Layer = "F.Cu"
	if layerNode, found := sexp.FindNode(node, "layer"); found {
		layer, err := sexp.GetString(layerNode, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer: %w", err)
		}
		fp.Layer = layer
	}

	// Position; optional for library footprints
	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, err := sexp.GetPosition(atNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse position: %w", err)
		}
		fp.Position = pos
	}

	// Reference and Value: (property "Reference" "R1" ...) since KiCad 7,
	// (fp_text reference "R1" ...) before that.
	for _, propNode := range sexp.FindAllNodes(node, "property") {
		propName, err := sexp.GetString(propNode, 1)
		if err != nil {
			continue
		}
		propValue, err := sexp.GetString(propNode, 2)
		if err != nil {
			continue
		}
		switch propName {
		case "Reference":
			fp.Reference = propValue
		case "Value":
			fp.Value = propValue
		}
	}
	for _, textNode := range sexp.FindAllNodes(node, "fp_text") {
		kind, err := sexp.GetString(textNode, 1)
		if err != nil {
			continue
		}
		text, err := sexp.GetString(textNode, 2)
		if err != nil {
			continue
		}
		switch kind {
		case "reference":
			if fp.Reference == "" {
				fp.Reference = text
			}
		case "value":
			if fp.Value == "" {
				fp.Value = text
			}
		}
	}

	for _, padNode := range sexp.FindAllNodes(node, "pad") {
		pad, err := parsePad(padNode, netMap)
		if err != nil {
			// Skip pads that fail to parse; the rest of the footprint
			// is still usable for placement.
			continue
		}
		fp.Pads = append(fp.Pads, *pad)
	}

	return fp, nil
}

// parsePad extracts a pad definition from a footprint node.
// Expected format: (pad "number" type shape (at x y [angle]) (size w h) (layers ...) (net n "name") ...)
func parsePad(node *kicadsexp.List, netMap *NetMap) (*Pad, error) {
	pad := &Pad{node: node}

	number, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}
	pad.Number = number

	padType, err := sexp.GetString(node, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad type: %w", err)
	}
	pad.Type = padType

	shape, err := sexp.GetString(node, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad shape: %w", err)
	}
	pad.Shape = shape

	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return nil, fmt.Errorf("missing required 'at' position")
	}
	pos, err := sexp.GetPosition(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad position: %w", err)
	}
	pad.Position = pos

	sizeNode, found := sexp.FindNode(node, "size")
	if !found {
		return nil, fmt.Errorf("missing required 'size' field")
	}
	width, err := sexp.GetFloat(sizeNode, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad width: %w", err)
	}
	height, err := sexp.GetFloat(sizeNode, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad height: %w", err)
	}
	pad.Size = Size{Width: width, Height: height}

	// Drill can be a bare number or (drill (diameter d))
	if drillNode, found := sexp.FindNode(node, "drill"); found {
		if drill, err := sexp.GetFloat(drillNode, 1); err == nil {
			pad.Drill = drill
		}
	}

	if layersNode, found := sexp.FindNode(node, "layers"); found {
		for _, item := range layersNode.Items()[1:] {
			if name, ok := kicadsexp.AtomText(item); ok && name != "" {
				pad.Layers = append(pad.Layers, name)
			}
		}
	}

	if netNode, found := sexp.FindNode(node, "net"); found {
		if netNum, err := sexp.GetInt(netNode, 1); err == nil && netMap != nil {
			if net, ok := netMap.GetByNumber(netNum); ok {
				pad.Net = net
			}
		}
	}

	return pad, nil
}

// SetPosition moves the footprint anchor to an absolute position in mm.
func (fp *Footprint) SetPosition(x, y float64) error {
	atNode, found := sexp.FindNode(fp.node, "at")
	if !found {
		atNode = kicadsexp.NewList(kicadsexp.Symbol("at"),
			sexp.FormatFloat(x), sexp.FormatFloat(y))
		fp.node.Append(atNode)
	} else if err := sexp.SetAt(atNode, x, y); err != nil {
		return err
	}

	fp.Position.X = x
	fp.Position.Y = y
	return nil
}

// SetOrientation rotates the footprint to an absolute angle in degrees.
// Child pads and text items store their angles pre-combined with the
// footprint rotation in the file format, so they are shifted by the same
// delta, matching what pcbnew writes when a part is rotated.
func (fp *Footprint) SetOrientation(deg float64) error {
	target := Angle(deg).Normalize()
	current := fp.Position.Angle.Normalize()
	if target == current {
		return nil
	}
	delta := target - current

	atNode, found := sexp.FindNode(fp.node, "at")
	if !found {
		return fmt.Errorf("footprint %q has no position node", fp.Reference)
	}
	if err := sexp.SetAtAngle(atNode, target); err != nil {
		return err
	}
	fp.Position.Angle = target

	for i := range fp.Pads {
		pad := &fp.Pads[i]
		if pad.node == nil {
			continue
		}
		if padAt, found := sexp.FindNode(pad.node, "at"); found {
			rotated := (pad.Position.Angle + delta).Normalize()
			if err := sexp.SetAtAngle(padAt, rotated); err != nil {
				return err
			}
			pad.Position.Angle = rotated
		}
	}

	rotateTextNodes(fp.node, delta)
	return nil
}

// rotateTextNodes shifts the angle of text children (properties, fp_text)
// by delta degrees.
func rotateTextNodes(node *kicadsexp.List, delta Angle) {
	for _, key := range []string{"property", "fp_text"} {
		for _, textNode := range sexp.FindAllNodes(node, key) {
			atNode, found := sexp.FindNode(textNode, "at")
			if !found {
				continue
			}
			pos, err := sexp.GetPosition(atNode)
			if err != nil {
				continue
			}
			sexp.SetAtAngle(atNode, (pos.Angle + delta).Normalize())
		}
	}
}

// Flip mirrors the footprint to the opposite side of the board: every
// front layer token inside the node becomes its back counterpart (and
// vice versa) and rotations are negated. The anchor position is kept, the
// granularity pcbnew's own flip operation works at.
func (fp *Footprint) Flip() error {
	if fp.node == nil {
		return fmt.Errorf("footprint has no backing node")
	}

	swapLayerTokens(fp.node)
	negateAngles(fp.node)

	fp.Layer = flipLayerName(fp.Layer)
	fp.Position.Angle = (-fp.Position.Angle).Normalize()
	for i := range fp.Pads {
		for j, name := range fp.Pads[i].Layers {
			fp.Pads[i].Layers[j] = flipLayerName(name)
		}
		fp.Pads[i].Position.Angle = (-fp.Pads[i].Position.Angle).Normalize()
	}

	return nil
}

// flipLayerName maps a front layer name to its back counterpart and back.
// Wildcard layers like "*.Mask" are side-neutral and pass through.
func flipLayerName(name string) string {
	switch {
	case strings.HasPrefix(name, "F."):
		return "B." + name[2:]
	case strings.HasPrefix(name, "B."):
		return "F." + name[2:]
	default:
		return name
	}
}

// swapLayerTokens rewrites every (layer ...) and (layers ...) node in the
// subtree, swapping front and back layer names.
func swapLayerTokens(node *kicadsexp.List) {
	name := sexp.NodeName(node)
	if name == "layer" || name == "layers" {
		items := node.Items()
		for i := 1; i < len(items); i++ {
			text, ok := kicadsexp.AtomText(items[i])
			if !ok {
				continue
			}
			flipped := flipLayerName(text)
			if flipped == text {
				continue
			}
			if _, quoted := items[i].(kicadsexp.String); quoted {
				node.Set(i, kicadsexp.String(flipped))
			} else {
				node.Set(i, kicadsexp.Symbol(flipped))
			}
		}
		return
	}

	for _, item := range node.Items() {
		if sub, ok := item.(*kicadsexp.List); ok {
			swapLayerTokens(sub)
		}
	}
}

// negateAngles negates the rotation of the footprint anchor and of the
// direct children that carry angles (pads and text items).
func negateAngles(node *kicadsexp.List) {
	if atNode, found := sexp.FindNode(node, "at"); found {
		if pos, err := sexp.GetPosition(atNode); err == nil && pos.Angle != 0 {
			sexp.SetAtAngle(atNode, (-pos.Angle).Normalize())
		}
	}

	for _, key := range []string{"pad", "property", "fp_text"} {
		for _, child := range sexp.FindAllNodes(node, key) {
			atNode, found := sexp.FindNode(child, "at")
			if !found {
				continue
			}
			if pos, err := sexp.GetPosition(atNode); err == nil && pos.Angle != 0 {
				sexp.SetAtAngle(atNode, (-pos.Angle).Normalize())
			}
		}
	}
}

// SetReference renames the footprint's reference designator.
func (fp *Footprint) SetReference(ref string) error {
	if err := fp.setTextField("Reference", "reference", ref); err != nil {
		return err
	}
	fp.Reference = ref
	return nil
}

// SetValue sets the footprint's value text.
func (fp *Footprint) SetValue(value string) error {
	if err := fp.setTextField("Value", "value", value); err != nil {
		return err
	}
	fp.Value = value
	return nil
}

// setTextField updates a named field in whichever form the node carries:
// (property "Reference" "R1" ...) or (fp_text reference "R1" ...). When
// neither exists a bare property node is appended.
func (fp *Footprint) setTextField(propName, textKind, value string) error {
	if fp.node == nil {
		return fmt.Errorf("footprint has no backing node")
	}

	for _, propNode := range sexp.FindAllNodes(fp.node, "property") {
		name, err := sexp.GetString(propNode, 1)
		if err != nil || name != propName {
			continue
		}
		if propNode.Len() < 3 {
			propNode.Append(kicadsexp.String(value))
		} else {
			propNode.Set(2, kicadsexp.String(value))
		}
		return nil
	}

	for _, textNode := range sexp.FindAllNodes(fp.node, "fp_text") {
		kind, err := sexp.GetString(textNode, 1)
		if err != nil || kind != textKind {
			continue
		}
		if textNode.Len() < 3 {
			textNode.Append(kicadsexp.String(value))
		} else {
			textNode.Set(2, kicadsexp.String(value))
		}
		return nil
	}

	fp.node.Append(kicadsexp.NewList(
		kicadsexp.Symbol("property"),
		kicadsexp.String(propName),
		kicadsexp.String(value),
	))
	return nil
}

// setNet binds the pad to a net, updating both model and node.
func (p *Pad) setNet(net *Net) {
	p.Net = net

	if p.node == nil {
		return
	}

	netNode, found := sexp.FindNode(p.node, "net")
	if net == nil {
		if found {
			p.node.Remove(netNode)
		}
		return
	}

	number := kicadsexp.Symbol(strconv.Itoa(net.Number))
	name := kicadsexp.String(net.Name)
	if found {
		netNode.Set(1, number)
		if netNode.Len() < 3 {
			netNode.Append(name)
		} else {
			netNode.Set(2, name)
		}
		return
	}

	p.node.Append(kicadsexp.NewList(kicadsexp.Symbol("net"), number, name))
}
