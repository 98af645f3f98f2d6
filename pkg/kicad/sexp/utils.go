package sexp

import (
	"fmt"
	"strconv"

	"github.com/kicadops/kicad-layout/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode searches the children of a list for a sub-list whose first
// symbol matches key.
// Example: FindNode(fp, "at") finds (at 100 50) inside a footprint node.
func FindNode(s kicadsexp.Sexp, key string) (*kicadsexp.List, bool) {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return nil, false
	}

	for _, item := range list.Items() {
		sub, ok := item.(*kicadsexp.List)
		if !ok {
			continue
		}
		if NodeName(sub) == key {
			return sub, true
		}
	}

	return nil, false
}

// FindAllNodes finds all child sub-lists with the given key.
func FindAllNodes(s kicadsexp.Sexp, key string) []*kicadsexp.List {
	var results []*kicadsexp.List

	list, ok := s.(*kicadsexp.List)
	if !ok {
		return results
	}

	for _, item := range list.Items() {
		sub, ok := item.(*kicadsexp.List)
		if !ok {
			continue
		}
		if NodeName(sub) == key {
			results = append(results, sub)
		}
	}

	return results
}

// NodeName returns the first symbol of a list (the node type), or the
// atom's text when given a leaf. Returns "" for empty lists.
func NodeName(s kicadsexp.Sexp) string {
	if s == nil {
		return ""
	}
	if s.IsLeaf() {
		text, _ := kicadsexp.AtomText(s)
		return text
	}
	list := s.(*kicadsexp.List)
	if list.Len() == 0 {
		return ""
	}
	text, _ := kicadsexp.AtomText(list.Get(0))
	return text
}

// HasSymbol checks if a list contains the given bare symbol as a direct
// child. KiCad uses bare symbols for flags like "locked".
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return false
	}

	for _, item := range list.Items() {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}

	return false
}

// Typed value extraction helpers.
// Index 0 is the node key, 1 is the first value, and so on.

// GetString extracts the atom text at the given index in a list. Both
// bare symbols and quoted strings are accepted, since KiCad quotes the
// same field inconsistently across format versions.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	list, ok := s.(*kicadsexp.List)
	if !ok {
		return "", fmt.Errorf("expected list, got leaf")
	}

	if index < 0 || index >= list.Len() {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, list.Len())
	}

	text, ok := kicadsexp.AtomText(list.Get(index))
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got %T", index, list.Get(index))
	}

	return text, nil
}

// GetFloat extracts a float64 value at the given index.
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// GetInt extracts an int value at the given index.
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// Domain-specific extraction helpers

// GetPosition extracts position and optional rotation from an
// (at X Y [angle]) node. Coordinates are millimeters, angles degrees.
func GetPosition(s kicadsexp.Sexp) (PositionAngle, error) {
	key, err := GetString(s, 0)
	if err != nil {
		return PositionAngle{}, err
	}
	if key != "at" {
		return PositionAngle{}, fmt.Errorf("expected 'at', got %q", key)
	}

	x, err := GetFloat(s, 1)
	if err != nil {
		return PositionAngle{}, fmt.Errorf("failed to parse X coordinate: %w", err)
	}

	y, err := GetFloat(s, 2)
	if err != nil {
		return PositionAngle{}, fmt.Errorf("failed to parse Y coordinate: %w", err)
	}

	result := PositionAngle{
		Position: Position{X: x, Y: y},
	}

	// Angle is optional
	if angle, err := GetFloat(s, 3); err == nil {
		result.Angle = Angle(angle)
	}

	return result, nil
}

// GetPositionXY extracts just X,Y coordinates from nodes like
// (start X Y), (end X Y), (center X Y).
func GetPositionXY(s kicadsexp.Sexp) (Position, error) {
	x, err := GetFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X: %w", err)
	}

	y, err := GetFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y: %w", err)
	}

	return Position{X: x, Y: y}, nil
}

// Mutation helpers

// FormatFloat renders a float the way KiCad writes coordinates: shortest
// decimal form, no exponent.
func FormatFloat(v float64) kicadsexp.Symbol {
	return kicadsexp.Symbol(strconv.FormatFloat(v, 'f', -1, 64))
}

// SetFloat replaces the value at the given index with a numeric atom,
// appending if the list is exactly one element short.
func SetFloat(list *kicadsexp.List, index int, v float64) error {
	if index < 0 || index > list.Len() {
		return fmt.Errorf("index %d out of bounds (length %d)", index, list.Len())
	}
	if index == list.Len() {
		list.Append(FormatFloat(v))
		return nil
	}
	list.Set(index, FormatFloat(v))
	return nil
}

// SetAt rewrites an (at X Y [angle]) node's coordinates, preserving any
// existing angle field.
func SetAt(at *kicadsexp.List, x, y float64) error {
	if NodeName(at) != "at" {
		return fmt.Errorf("expected 'at' node, got %q", NodeName(at))
	}
	if err := SetFloat(at, 1, x); err != nil {
		return err
	}
	return SetFloat(at, 2, y)
}

// SetAtAngle rewrites the angle field of an (at X Y [angle]) node,
// creating the field when absent. A zero angle keeps an existing field
// (KiCad itself writes explicit zeros once a part has been rotated).
func SetAtAngle(at *kicadsexp.List, angle Angle) error {
	if NodeName(at) != "at" {
		return fmt.Errorf("expected 'at' node, got %q", NodeName(at))
	}
	if at.Len() < 3 {
		return fmt.Errorf("'at' node too short (length %d)", at.Len())
	}
	if at.Len() == 3 && angle == 0 {
		return nil
	}
	return SetFloat(at, 3, float64(angle.Normalize()))
}
