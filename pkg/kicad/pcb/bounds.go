package pcb

import "math"

// GetBoundingBox calculates the bounding box of the entire board from
// tracks and footprint pads.
func (b *Board) GetBoundingBox() BoundingBox {
	bbox := NewBoundingBox()

	for _, track := range b.Tracks {
		bbox.Expand(track.Start)
		bbox.Expand(track.End)
	}

	for _, fp := range b.Footprints {
		bbox.ExpandBox(fp.GetBoundingBox())
	}

	return bbox
}

// GetBoundingBox calculates the bounding box of a footprint from its pads
// transformed to board coordinates.
func (fp *Footprint) GetBoundingBox() BoundingBox {
	bbox := NewBoundingBox()

	for _, pad := range fp.Pads {
		absPos := fp.TransformPosition(pad.Position)

		// Expand by pad size (approximate as rectangle)
		halfWidth := pad.Size.Width / 2.0
		halfHeight := pad.Size.Height / 2.0

		bbox.Expand(Position{X: absPos.X - halfWidth, Y: absPos.Y - halfHeight})
		bbox.Expand(Position{X: absPos.X + halfWidth, Y: absPos.Y + halfHeight})
	}

	// If no pads, at least include the footprint anchor
	if len(fp.Pads) == 0 {
		bbox.Expand(Position{X: fp.Position.X, Y: fp.Position.Y})
	}

	return bbox
}

// TransformPosition transforms a footprint-relative position to board
// coordinates, applying the footprint rotation and translation.
func (fp *Footprint) TransformPosition(relPos PositionAngle) Position {
	x, y := relPos.X, relPos.Y

	// Negate to match KiCad's Y-down coordinate system
	if fp.Position.Angle != 0 {
		angleRad := -float64(fp.Position.Angle) * math.Pi / 180.0
		cos := math.Cos(angleRad)
		sin := math.Sin(angleRad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	return Position{X: x + fp.Position.X, Y: y + fp.Position.Y}
}
