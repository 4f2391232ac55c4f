package types

import (
	"fmt"
	"strings"
)

// Position is an integer grid coordinate, X along the row and Y the row number.
type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Add offsets the position, no bounds are applied.
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

type WellLayout uint8

const (
	WellNone  WellLayout = iota // Well disabled
	WellPoint                   // A single cell
	WellRow                     // Every cell of one grid row, a horizontal well
)

var WellLayoutNameMap = map[string]WellLayout{
	"none":       WellNone,
	"point":      WellPoint,
	"single":     WellPoint,
	"row":        WellRow,
	"horizontal": WellRow,
}

func (wl WellLayout) String() string {
	switch wl {
	case WellNone:
		return "none"
	case WellPoint:
		return "point"
	case WellRow:
		return "row"
	}
	return fmt.Sprintf("WellLayout(%d)", uint8(wl))
}

// NewWellLayout parses a layout label, case insensitive. The empty label is WellNone.
func NewWellLayout(label string) (wl WellLayout, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if len(label) == 0 {
		return WellNone, nil
	}
	if wl, ok = WellLayoutNameMap[label]; !ok {
		err = fmt.Errorf("unknown well layout %q, valid layouts are none, point and row", label)
	}
	return
}

// ActivationOrder is the policy used to visit cells within one time step.
type ActivationOrder uint8

const (
	Shuffled   ActivationOrder = iota // Seeded random permutation, redrawn every step
	Sequential                        // Row-major scan
)

var ActivationNameMap = map[string]ActivationOrder{
	"shuffled":   Shuffled,
	"random":     Shuffled,
	"sequential": Sequential,
	"scan":       Sequential,
}

func (ao ActivationOrder) String() string {
	switch ao {
	case Shuffled:
		return "shuffled"
	case Sequential:
		return "sequential"
	}
	return fmt.Sprintf("ActivationOrder(%d)", uint8(ao))
}

// NewActivationOrder parses an activation label, the empty label is Shuffled.
func NewActivationOrder(label string) (ao ActivationOrder, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if len(label) == 0 {
		return Shuffled, nil
	}
	if ao, ok = ActivationNameMap[label]; !ok {
		err = fmt.Errorf("unknown activation order %q, valid orders are shuffled and sequential", label)
	}
	return
}
