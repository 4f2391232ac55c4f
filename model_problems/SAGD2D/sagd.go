package SAGD2D

import (
	"io"
	"math"
	"os"
	"time"

	"github.com/notargets/gosagd/types"
	"github.com/notargets/gosagd/utils"
)

/*
	One time step:
		1) account the steam injected at every injection cell
		2) activate every cell exactly once, in the activation order
		3) append a Record to the aggregator and notify step listeners

	Cell updates mutate their neighbors in place, so results depend on the order
	of activation. The order is a constructor option: Sequential is a row-major
	scan, Shuffled draws a new permutation from the seeded RNG every step.
*/
type SAGD struct {
	Width, Height int
	Cfg           Config
	Metrics       *Aggregator
	grid          *Grid
	rng           *utils.RNG
	activation    types.ActivationOrder
	order         []int
	placement     []types.Position
	injection     []int  // Arena indices of injection cells
	isInjection   []bool // Indexed by arena index
	isProduction  []bool
	steps         int
	listeners     []StepListener
	observer      Observer
	out           io.Writer
}

// StepListener is called after every step with the new aggregate row and the
// wall time spent in the step.
type StepListener func(s *SAGD, rec Record, dt time.Duration)

type Option func(s *SAGD)

// WithObserver receives grid construction diagnostics.
func WithObserver(obs Observer) Option {
	return func(s *SAGD) { s.observer = obs }
}

// WithActivation overrides Config.Activation.
func WithActivation(ao types.ActivationOrder) Option {
	return func(s *SAGD) { s.activation = ao }
}

// WithRNG replaces the RNG seeded from Config.Seed.
func WithRNG(rng *utils.RNG) Option {
	return func(s *SAGD) { s.rng = rng }
}

func WithStepListener(l StepListener) Option {
	return func(s *SAGD) { s.listeners = append(s.listeners, l) }
}

// WithOutput redirects the progress printing of Run, default os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *SAGD) { s.out = w }
}

// WithPlacement builds the grid from an explicit placement sequence instead of
// the row-major enumeration. Used to exercise the placement checks.
func WithPlacement(placement []types.Position) Option {
	return func(s *SAGD) { s.placement = placement }
}

// NewSAGD validates cfg, then builds a width x height reservoir with all cells
// at initial conditions and zeroed aggregates.
func NewSAGD(width, height int, cfg Config, opts ...Option) (s *SAGD, err error) {
	if err = cfg.Validate(width, height); err != nil {
		return
	}
	s = &SAGD{
		Width:      width,
		Height:     height,
		Cfg:        cfg,
		Metrics:    NewAggregator(cfg.SOREpsilon),
		activation: cfg.Activation,
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = utils.NewRNG(cfg.Seed)
	}
	if s.placement == nil {
		s.placement = RowMajorPlacement(width, height)
	}
	if s.grid, err = NewGrid(width, height, s.placement, s.newCell, s.observer); err != nil {
		s = nil
		return
	}
	s.placement = nil
	s.markWells()
	s.order = make([]int, s.grid.Len())
	for i := range s.order {
		s.order[i] = i
	}
	return
}

func (s *SAGD) newCell(p types.Position) Cell {
	cfg := &s.Cfg
	return Cell{
		Pos:          p,
		Porosity:     s.rng.Jitter(cfg.BasePorosity, cfg.PorosityJitter[0], cfg.PorosityJitter[1]),
		Permeability: s.rng.Jitter(cfg.BasePermeability, cfg.PermeabilityJitter[0], cfg.PermeabilityJitter[1]),
		Oil:          cfg.InitialOilSaturation,
		Water:        cfg.InitialWaterSaturation,
		Temperature:  cfg.ReservoirTemp,
	}
}

func (s *SAGD) markWells() {
	n := s.grid.Len()
	s.isInjection = make([]bool, n)
	s.isProduction = make([]bool, n)
	for _, p := range s.Cfg.Injection.Positions(s.Width) {
		i := s.grid.Index(p)
		s.isInjection[i] = true
		s.injection = append(s.injection, i)
	}
	for _, p := range s.Cfg.Production.Positions(s.Width) {
		s.isProduction[s.grid.Index(p)] = true
	}
}

func (s *SAGD) Grid() *Grid                       { return s.grid }
func (s *SAGD) Steps() int                        { return s.steps }
func (s *SAGD) Activation() types.ActivationOrder { return s.activation }

func (s *SAGD) IsInjection(p types.Position) bool {
	return s.grid.InBounds(p) && s.isInjection[s.grid.Index(p)]
}

func (s *SAGD) IsProduction(p types.Position) bool {
	return s.grid.InBounds(p) && s.isProduction[s.grid.Index(p)]
}

// Viscosity of the cell at p, which must be in bounds.
func (s *SAGD) Viscosity(p types.Position) float64 {
	return s.Cfg.Viscosity(s.grid.CellAt(p).Temperature)
}

// Pressure of the cell at p, which must be in bounds.
func (s *SAGD) Pressure(p types.Position) float64 {
	return s.Cfg.Pressure(s.grid.CellAt(p))
}

// AdvanceStep runs one complete time step. A step always runs to completion.
func (s *SAGD) AdvanceStep() (rec Record) {
	start := time.Now()
	for _, i := range s.injection {
		s.Metrics.addSteam(s.Cfg.InjectionRate * s.grid.cells[i].Porosity)
	}
	if s.activation == types.Shuffled {
		s.rng.Shuffle(s.order)
	}
	for _, i := range s.order {
		s.updateCell(i)
	}
	s.steps++
	rec = s.Metrics.record(s.steps)
	dt := time.Since(start)
	for _, l := range s.listeners {
		l(s, rec, dt)
	}
	return
}

func (s *SAGD) updateCell(i int) {
	var (
		cfg = &s.Cfg
		c   = &s.grid.cells[i]
	)
	// Well coupling
	if s.isInjection[i] {
		c.Steam += cfg.InjectionRate * c.Porosity
		c.Temperature += (cfg.SteamTemp - c.Temperature) * cfg.InjectionHeatFraction
		c.Water = math.Max(0, c.Water-cfg.InjectionRate)
		c.Oil = math.Max(0, c.Oil-cfg.InjectionRate)
	}
	// Flow and conduction only touch the neighbor's state and this cell's oil,
	// so both can share one pass; viscosity depends on this cell's temperature only.
	visc := cfg.Viscosity(c.Temperature)
	for _, j := range s.grid.NeighborIndices(i) {
		nb := &s.grid.cells[j]
		flowRate := c.Permeability * (cfg.Pressure(c) - cfg.Pressure(nb)) / visc * cfg.FlowCoefficient
		if flowRate > 0 {
			transfer := math.Min(c.Oil, flowRate*c.Porosity)
			c.Oil -= transfer
			nb.Oil += transfer
			nb.Water = math.Max(0, nb.Water-transfer)
			nb.Renormalize()
		}
		nb.Temperature += (c.Temperature - nb.Temperature) * cfg.ConductionFraction
	}
	// Pressure needs no update, it is derived from the saturations on read
	if s.isProduction[i] {
		produced := math.Min(c.Oil, cfg.ProductionCoefficient*c.Porosity)
		c.Oil -= produced
		s.Metrics.addOil(produced)
		c.Water = math.Max(0, c.Water-produced)
	}
	c.Renormalize()
}
