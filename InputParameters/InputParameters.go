package InputParameters

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"

	"github.com/notargets/gosagd/model_problems/SAGD2D"
	"github.com/notargets/gosagd/types"
)

const (
	DefaultWidth  = 20
	DefaultHeight = 20
	DefaultSteps  = 100
)

// WellParameters places a well. YAML 1.1 reads bare Y/N keys as booleans, so
// the coordinates are keyed Column and Row.
type WellParameters struct {
	Layout string `yaml:"Layout"` // none, point or row
	Column int    `yaml:"Column"`
	Row    int    `yaml:"Row"`
}

// Parameters obtained from the YAML input file. Zero values keep the defaults
// of SAGD2D.DefaultConfig.
type InputParametersSAGD struct {
	Title                  string          `yaml:"Title"`
	Width                  int             `yaml:"Width"`
	Height                 int             `yaml:"Height"`
	Steps                  int             `yaml:"Steps"`
	Seed                   int64           `yaml:"Seed"`
	Activation             string          `yaml:"Activation"` // shuffled or sequential
	PrintEvery             int             `yaml:"PrintEvery"`
	BasePorosity           float64         `yaml:"BasePorosity"`
	BasePermeability       float64         `yaml:"BasePermeability"`
	PorosityJitter         []float64       `yaml:"PorosityJitter"`
	PermeabilityJitter     []float64       `yaml:"PermeabilityJitter"`
	InitialOilSaturation   float64         `yaml:"InitialOilSaturation"`
	InitialWaterSaturation float64         `yaml:"InitialWaterSaturation"`
	ReservoirTemp          float64         `yaml:"ReservoirTemp"`
	BaseViscosity          float64         `yaml:"BaseViscosity"`
	TempCoefficient        float64         `yaml:"TempCoefficient"`
	InjectionRate          float64         `yaml:"InjectionRate"`
	SteamTemp              float64         `yaml:"SteamTemp"`
	InjectionHeatFraction  float64         `yaml:"InjectionHeatFraction"`
	ConductionFraction     float64         `yaml:"ConductionFraction"`
	BasePressure           float64         `yaml:"BasePressure"`
	PressureCoefficient    float64         `yaml:"PressureCoefficient"`
	FlowCoefficient        float64         `yaml:"FlowCoefficient"`
	ProductionCoefficient  float64         `yaml:"ProductionCoefficient"`
	InjectionWell          *WellParameters `yaml:"InjectionWell"`
	ProductionWell         *WellParameters `yaml:"ProductionWell"`
}

func (ip *InputParametersSAGD) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersSAGD) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%d x %d]\t\t= Grid\n", ip.Width, ip.Height)
	fmt.Fprintf(w, "[%d]\t\t\t= Steps\n", ip.Steps)
	fmt.Fprintf(w, "[%d]\t\t\t= Seed\n", ip.Seed)
	fmt.Fprintf(w, "[%s]\t\t= Activation\n", ip.Activation)
	fmt.Fprintf(w, "%8.5f\t\t= InjectionRate\n", ip.InjectionRate)
	fmt.Fprintf(w, "%8.5f\t\t= SteamTemp\n", ip.SteamTemp)
	if ip.InjectionWell != nil {
		fmt.Fprintf(w, "InjectionWell = %+v\n", *ip.InjectionWell)
	}
	if ip.ProductionWell != nil {
		fmt.Fprintf(w, "ProductionWell = %+v\n", *ip.ProductionWell)
	}
}

// Config resolves the grid size, step count and model configuration.
func (ip *InputParametersSAGD) Config() (width, height, steps int, cfg SAGD2D.Config, err error) {
	width, height, steps = ip.Width, ip.Height, ip.Steps
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if steps == 0 {
		steps = DefaultSteps
	}
	cfg = SAGD2D.DefaultConfig(width, height)
	setF := func(dst *float64, val float64) {
		if val != 0 {
			*dst = val
		}
	}
	setF(&cfg.BasePorosity, ip.BasePorosity)
	setF(&cfg.BasePermeability, ip.BasePermeability)
	setF(&cfg.InitialOilSaturation, ip.InitialOilSaturation)
	setF(&cfg.InitialWaterSaturation, ip.InitialWaterSaturation)
	setF(&cfg.ReservoirTemp, ip.ReservoirTemp)
	setF(&cfg.BaseViscosity, ip.BaseViscosity)
	setF(&cfg.TempCoefficient, ip.TempCoefficient)
	setF(&cfg.InjectionRate, ip.InjectionRate)
	setF(&cfg.SteamTemp, ip.SteamTemp)
	setF(&cfg.InjectionHeatFraction, ip.InjectionHeatFraction)
	setF(&cfg.ConductionFraction, ip.ConductionFraction)
	setF(&cfg.BasePressure, ip.BasePressure)
	setF(&cfg.PressureCoefficient, ip.PressureCoefficient)
	setF(&cfg.FlowCoefficient, ip.FlowCoefficient)
	setF(&cfg.ProductionCoefficient, ip.ProductionCoefficient)
	if ip.Seed != 0 {
		cfg.Seed = ip.Seed
	}
	if ip.PrintEvery != 0 {
		cfg.PrintEvery = ip.PrintEvery
	}
	if cfg.PorosityJitter, err = jitter("PorosityJitter", ip.PorosityJitter, cfg.PorosityJitter); err != nil {
		return
	}
	if cfg.PermeabilityJitter, err = jitter("PermeabilityJitter", ip.PermeabilityJitter, cfg.PermeabilityJitter); err != nil {
		return
	}
	if cfg.Activation, err = types.NewActivationOrder(ip.Activation); err != nil {
		return
	}
	if ip.InjectionWell != nil {
		if cfg.Injection, err = ip.InjectionWell.spec(); err != nil {
			return
		}
	}
	if ip.ProductionWell != nil {
		if cfg.Production, err = ip.ProductionWell.spec(); err != nil {
			return
		}
	}
	return
}

func jitter(name string, in []float64, def [2]float64) (out [2]float64, err error) {
	switch len(in) {
	case 0:
		out = def
	case 2:
		out = [2]float64{in[0], in[1]}
	default:
		err = fmt.Errorf("%s needs two values [low, high], have %v", name, in)
	}
	return
}

func (wp *WellParameters) spec() (ws SAGD2D.WellSpec, err error) {
	var layout types.WellLayout
	if layout, err = types.NewWellLayout(wp.Layout); err != nil {
		return
	}
	switch layout {
	case types.WellPoint:
		ws = SAGD2D.PointWell(wp.Column, wp.Row)
	case types.WellRow:
		ws = SAGD2D.RowWell(wp.Row)
	default:
		ws = SAGD2D.NoWell()
	}
	return
}
