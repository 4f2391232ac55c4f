package SAGD2D

import (
	"github.com/notargets/gosagd/types"
)

// Cell is the state of one grid position. Cells live in the Grid arena and are
// addressed by index; pressure is derived from saturations, see Config.Pressure.
type Cell struct {
	Pos               types.Position
	Porosity          float64
	Permeability      float64
	Oil, Water, Steam float64 // Saturations, fractions of pore volume
	Temperature       float64
}

func (c *Cell) SaturationSum() float64 {
	return c.Oil + c.Water + c.Steam
}

// Renormalize scales the saturations to sum to 1 when they exceed it. A sum
// below 1 is a partially saturated cell and is left alone.
func (c *Cell) Renormalize() {
	total := c.SaturationSum()
	if total > 1 {
		c.Oil /= total
		c.Water /= total
		c.Steam /= total
	}
}
