package layout

// Board is the capability surface the applicator needs from a host board
// document. The board is exclusively owned by the caller for the duration
// of an Apply call; the applicator retains no reference past return.
type Board interface {
	// FindComponent looks up a placed component by exact reference
	// designator.
	FindComponent(ref string) (Component, bool)

	// Refresh signals that mutations are complete so the host can
	// redraw or otherwise react. Hosts without a view may no-op.
	Refresh()
}

// Component is one placed component on the board. Coordinates are
// millimeters, angles degrees; implementations convert to whatever
// internal unit their document format uses.
type Component interface {
	// Reference returns the component's reference designator.
	Reference() string

	// Position returns the absolute anchor position in mm.
	Position() Point

	// SetPosition moves the component to an absolute position in mm.
	SetPosition(p Point) error

	// Orientation returns the absolute rotation in degrees.
	Orientation() float64

	// SetOrientation rotates the component to an absolute angle.
	SetOrientation(deg float64) error

	// Flipped reports whether the component sits on the back side.
	Flipped() bool

	// Flip mirrors the component to the opposite board side.
	Flip() error

	// ReplaceFootprint substitutes the component's footprint definition
	// with the named one, preserving the reference designator, value,
	// and pad connectivity. The path is a library directory relative to
	// the board file's directory. Implementations should treat a
	// substitution whose footprint id already matches as a no-op.
	ReplaceFootprint(path, name string) error
}
