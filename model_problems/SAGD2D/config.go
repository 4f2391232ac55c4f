package SAGD2D

import (
	"fmt"
	"math"

	"github.com/notargets/gosagd/types"
)

// WellSpec tags the grid positions belonging to a well. A point well uses Pos,
// a row well uses Pos.Y and spans every column.
type WellSpec struct {
	Layout types.WellLayout
	Pos    types.Position
}

func PointWell(x, y int) WellSpec {
	return WellSpec{Layout: types.WellPoint, Pos: types.Position{X: x, Y: y}}
}

func RowWell(y int) WellSpec {
	return WellSpec{Layout: types.WellRow, Pos: types.Position{Y: y}}
}

func NoWell() WellSpec { return WellSpec{Layout: types.WellNone} }

func (ws WellSpec) Contains(p types.Position) bool {
	switch ws.Layout {
	case types.WellPoint:
		return p == ws.Pos
	case types.WellRow:
		return p.Y == ws.Pos.Y
	}
	return false
}

// Positions lists the well cells in row-major order for a grid of the given width.
func (ws WellSpec) Positions(width int) (pos []types.Position) {
	switch ws.Layout {
	case types.WellPoint:
		pos = []types.Position{ws.Pos}
	case types.WellRow:
		pos = make([]types.Position, width)
		for x := 0; x < width; x++ {
			pos[x] = types.Position{X: x, Y: ws.Pos.Y}
		}
	}
	return
}

func (ws WellSpec) String() string {
	switch ws.Layout {
	case types.WellPoint:
		return fmt.Sprintf("point %s", ws.Pos)
	case types.WellRow:
		return fmt.Sprintf("row %d", ws.Pos.Y)
	}
	return ws.Layout.String()
}

func (ws WellSpec) validate(name string, width, height int) error {
	switch ws.Layout {
	case types.WellNone:
	case types.WellPoint:
		if ws.Pos.X < 0 || ws.Pos.X >= width || ws.Pos.Y < 0 || ws.Pos.Y >= height {
			return fmt.Errorf("%w: %s well %s is outside the %dx%d grid",
				ErrInvalidConfig, name, ws.Pos, width, height)
		}
	case types.WellRow:
		if ws.Pos.Y < 0 || ws.Pos.Y >= height {
			return fmt.Errorf("%w: %s well row %d is outside the %dx%d grid",
				ErrInvalidConfig, name, ws.Pos.Y, width, height)
		}
	default:
		return fmt.Errorf("%w: %s well has unknown layout %s", ErrInvalidConfig, name, ws.Layout)
	}
	return nil
}

// Config holds the reservoir, fluid and well parameters of a model.
type Config struct {
	BasePorosity           float64
	BasePermeability       float64    // mD
	PorosityJitter         [2]float64 // Uniform factor band applied per cell
	PermeabilityJitter     [2]float64
	InitialOilSaturation   float64
	InitialWaterSaturation float64
	ReservoirTemp          float64 // Baseline temperature, C
	BaseViscosity          float64 // Bitumen viscosity at ReservoirTemp, cP
	TempCoefficient        float64 // Negative, 1/C
	MinViscosity           float64
	InjectionRate          float64
	SteamTemp              float64
	InjectionHeatFraction  float64 // Relaxation of the injection cell toward SteamTemp
	ConductionFraction     float64 // Relaxation of each neighbor toward the active cell
	BasePressure           float64 // kPa
	PressureCoefficient    float64
	FlowCoefficient        float64
	ProductionCoefficient  float64
	SOREpsilon             float64
	Injection, Production  WellSpec
	Activation             types.ActivationOrder
	Seed                   int64
	PrintEvery             int
}

// DefaultConfig is a horizontal well pair, injector on the bottom row and
// producer two rows above it.
func DefaultConfig(width, height int) Config {
	return Config{
		BasePorosity:           0.3,
		BasePermeability:       1000,
		PorosityJitter:         [2]float64{0.9, 1.1},
		PermeabilityJitter:     [2]float64{0.8, 1.2},
		InitialOilSaturation:   0.8,
		InitialWaterSaturation: 0.2,
		ReservoirTemp:          10,
		BaseViscosity:          1.e6,
		TempCoefficient:        -0.05,
		MinViscosity:           1.e-9,
		InjectionRate:          0.1,
		SteamTemp:              250,
		InjectionHeatFraction:  0.5,
		ConductionFraction:     0.1,
		BasePressure:           1000,
		PressureCoefficient:    500,
		FlowCoefficient:        0.01,
		ProductionCoefficient:  0.05,
		SOREpsilon:             1.e-6,
		Injection:              RowWell(height - 1),
		Production:             RowWell(height - 3),
		Activation:             types.Shuffled,
		Seed:                   1,
		PrintEvery:             10,
	}
}

// Viscosity of bitumen at temperature T, decaying exponentially above the
// reservoir baseline and floored at MinViscosity.
func (cfg *Config) Viscosity(T float64) float64 {
	v := cfg.BaseViscosity * math.Exp(cfg.TempCoefficient*(T-cfg.ReservoirTemp))
	return math.Max(v, cfg.MinViscosity)
}

// Pressure is derived from the fluid content of a cell and is never stored.
func (cfg *Config) Pressure(c *Cell) float64 {
	return cfg.BasePressure + cfg.PressureCoefficient*(c.Oil+c.Steam)
}

func (cfg *Config) Validate(width, height int) (err error) {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: grid dimensions must be positive, have %dx%d", ErrInvalidConfig, width, height)
	}
	if err = cfg.Injection.validate("injection", width, height); err != nil {
		return
	}
	if err = cfg.Production.validate("production", width, height); err != nil {
		return
	}
	check := func(ok bool, format string, args ...any) {
		if err == nil && !ok {
			err = fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
		}
	}
	check(cfg.BasePorosity > 0 && cfg.BasePorosity < 1, "base porosity %v must be in (0,1)", cfg.BasePorosity)
	check(cfg.PorosityJitter[0] > 0 && cfg.PorosityJitter[0] <= cfg.PorosityJitter[1] &&
		cfg.BasePorosity*cfg.PorosityJitter[1] < 1,
		"porosity jitter %v must keep porosity in (0,1)", cfg.PorosityJitter)
	check(cfg.BasePermeability > 0, "base permeability %v must be positive", cfg.BasePermeability)
	check(cfg.PermeabilityJitter[0] > 0 && cfg.PermeabilityJitter[0] <= cfg.PermeabilityJitter[1],
		"permeability jitter %v must be positive and ordered", cfg.PermeabilityJitter)
	check(cfg.InitialOilSaturation >= 0 && cfg.InitialWaterSaturation >= 0 &&
		cfg.InitialOilSaturation+cfg.InitialWaterSaturation <= 1,
		"initial saturations oil %v, water %v must be non-negative and sum to at most 1",
		cfg.InitialOilSaturation, cfg.InitialWaterSaturation)
	check(cfg.BaseViscosity > 0, "base viscosity %v must be positive", cfg.BaseViscosity)
	check(cfg.TempCoefficient < 0, "temperature coefficient %v must be negative", cfg.TempCoefficient)
	check(cfg.MinViscosity > 0, "minimum viscosity %v must be positive", cfg.MinViscosity)
	check(cfg.InjectionRate >= 0, "injection rate %v must not be negative", cfg.InjectionRate)
	check(cfg.ProductionCoefficient >= 0, "production coefficient %v must not be negative", cfg.ProductionCoefficient)
	check(cfg.FlowCoefficient >= 0, "flow coefficient %v must not be negative", cfg.FlowCoefficient)
	check(cfg.InjectionHeatFraction >= 0 && cfg.InjectionHeatFraction <= 1,
		"injection heat fraction %v must be in [0,1]", cfg.InjectionHeatFraction)
	check(cfg.ConductionFraction >= 0 && cfg.ConductionFraction <= 1,
		"conduction fraction %v must be in [0,1]", cfg.ConductionFraction)
	check(cfg.SOREpsilon > 0, "SOR epsilon %v must be positive", cfg.SOREpsilon)
	return
}
