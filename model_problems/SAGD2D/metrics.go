package SAGD2D

import (
	"fmt"
	"math"
)

// Record is one row of the model time series, taken after a step completes.
type Record struct {
	Step          int
	OilProduced   float64 // Cumulative
	SteamInjected float64 // Cumulative
	SOR           float64
}

func (r Record) String() string {
	return fmt.Sprintf("step %6d: oil produced = %10.5f, steam injected = %10.5f, SOR = %10.4f",
		r.Step, r.OilProduced, r.SteamInjected, r.SOR)
}

// Aggregator accumulates injected steam and produced oil. Both totals only
// grow and rows are only ever appended to the series.
type Aggregator struct {
	totalOil, totalSteam float64
	epsilon              float64
	series               []Record
}

func NewAggregator(epsilon float64) *Aggregator {
	if epsilon <= 0 {
		epsilon = 1.e-6
	}
	return &Aggregator{epsilon: epsilon}
}

func (a *Aggregator) TotalOilProduced() float64   { return a.totalOil }
func (a *Aggregator) TotalSteamInjected() float64 { return a.totalSteam }

// SOR is the cumulative steam-to-oil ratio, guarded while no oil has been produced.
func (a *Aggregator) SOR() float64 {
	return a.totalSteam / math.Max(a.totalOil, a.epsilon)
}

func (a *Aggregator) Len() int { return len(a.series) }

// Series returns a copy of the recorded rows.
func (a *Aggregator) Series() []Record {
	out := make([]Record, len(a.series))
	copy(out, a.series)
	return out
}

func (a *Aggregator) Last() (r Record, ok bool) {
	if len(a.series) == 0 {
		return
	}
	return a.series[len(a.series)-1], true
}

func (a *Aggregator) addSteam(amount float64) {
	if amount > 0 {
		a.totalSteam += amount
	}
}

func (a *Aggregator) addOil(amount float64) {
	if amount > 0 {
		a.totalOil += amount
	}
}

func (a *Aggregator) record(step int) (r Record) {
	r = Record{
		Step:          step,
		OilProduced:   a.totalOil,
		SteamInjected: a.totalSteam,
		SOR:           a.SOR(),
	}
	a.series = append(a.series, r)
	return
}
