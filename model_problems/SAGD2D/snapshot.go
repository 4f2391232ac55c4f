package SAGD2D

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gosagd/types"
	"github.com/notargets/gosagd/utils"
)

// CellSnapshot is a read-only copy of one cell, pressure included.
type CellSnapshot struct {
	Pos                    types.Position
	Oil, Water, Steam      float64
	Temperature, Pressure  float64
	Porosity, Permeability float64
}

type FieldKind uint8

const (
	FieldOil FieldKind = iota
	FieldWater
	FieldSteam
	FieldTemperature
	FieldPressure
)

var FieldNameMap = map[string]FieldKind{
	"oil":         FieldOil,
	"water":       FieldWater,
	"steam":       FieldSteam,
	"temperature": FieldTemperature,
	"pressure":    FieldPressure,
}

func (fk FieldKind) String() string {
	switch fk {
	case FieldOil:
		return "Oil Saturation"
	case FieldWater:
		return "Water Saturation"
	case FieldSteam:
		return "Steam Saturation"
	case FieldTemperature:
		return "Temperature"
	case FieldPressure:
		return "Pressure"
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(fk))
}

func NewFieldKind(label string) (fk FieldKind, err error) {
	var ok bool
	if fk, ok = FieldNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown field %q", label)
	}
	return
}

func (s *SAGD) snapshotOf(c *Cell) CellSnapshot {
	return CellSnapshot{
		Pos:          c.Pos,
		Oil:          c.Oil,
		Water:        c.Water,
		Steam:        c.Steam,
		Temperature:  c.Temperature,
		Pressure:     s.Cfg.Pressure(c),
		Porosity:     c.Porosity,
		Permeability: c.Permeability,
	}
}

// Snapshot copies every cell in row-major order without touching model state.
func (s *SAGD) Snapshot() (snap []CellSnapshot) {
	snap = make([]CellSnapshot, s.grid.Len())
	for i := range s.grid.cells {
		snap[i] = s.snapshotOf(&s.grid.cells[i])
	}
	return
}

func (s *SAGD) CellSnapshot(p types.Position) (cs CellSnapshot, ok bool) {
	c := s.grid.CellAt(p)
	if c == nil {
		return
	}
	return s.snapshotOf(c), true
}

func (s *SAGD) fieldValue(c *Cell, kind FieldKind) float64 {
	switch kind {
	case FieldOil:
		return c.Oil
	case FieldWater:
		return c.Water
	case FieldSteam:
		return c.Steam
	case FieldTemperature:
		return c.Temperature
	case FieldPressure:
		return s.Cfg.Pressure(c)
	default:
		panic(fmt.Errorf("unknown field kind %d", kind))
	}
}

// Field copies one quantity into a Height x Width matrix, row y column x.
func (s *SAGD) Field(kind FieldKind) (fld *mat.Dense) {
	data := make([]float64, s.grid.Len())
	for i := range s.grid.cells {
		data[i] = s.fieldValue(&s.grid.cells[i], kind)
	}
	fld = mat.NewDense(s.Height, s.Width, data)
	return
}

func (s *SAGD) FieldStats(kind FieldKind) utils.FieldStats {
	return utils.NewFieldStats(s.Field(kind).RawMatrix().Data)
}
