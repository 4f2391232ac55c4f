package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notargets/gosagd/model_problems/SAGD2D"
	"github.com/notargets/gosagd/utils"
)

// SAGDCollector mirrors the model aggregates into Prometheus gauges.
type SAGDCollector struct {
	gatherer prometheus.Gatherer

	Step            prometheus.Gauge
	OilProduced     prometheus.Gauge
	SteamInjected   prometheus.Gauge
	SteamOilRatio   prometheus.Gauge
	MeanTemperature prometheus.Gauge
	StepDurations   prometheus.Histogram
}

// NewSAGDCollector registers the SAGD metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewSAGDCollector(reg prometheus.Registerer) (*SAGDCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	c := &SAGDCollector{gatherer: gatherer}
	gauges := []struct {
		dst        *prometheus.Gauge
		name, help string
	}{
		{&c.Step, "sagd_step", "Number of completed simulation steps."},
		{&c.OilProduced, "sagd_oil_produced_total", "Cumulative produced oil, saturation units."},
		{&c.SteamInjected, "sagd_steam_injected_total", "Cumulative injected steam, saturation units."},
		{&c.SteamOilRatio, "sagd_steam_oil_ratio", "Cumulative steam-to-oil ratio."},
		{&c.MeanTemperature, "sagd_mean_temperature", "Mean cell temperature."},
	}
	for _, g := range gauges {
		gauge, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: g.name,
			Help: g.help,
		}), g.name)
		if err != nil {
			return nil, err
		}
		*g.dst = gauge
	}
	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sagd_step_duration_seconds",
		Help:    "Wall time of one simulation step.",
		Buckets: prometheus.ExponentialBuckets(1.e-6, 4, 12),
	}), "sagd_step_duration_seconds")
	if err != nil {
		return nil, err
	}
	c.StepDurations = durations
	return c, nil
}

func (c *SAGDCollector) Observe(rec SAGD2D.Record, temp utils.FieldStats, dt time.Duration) {
	if c == nil {
		return
	}
	c.Step.Set(float64(rec.Step))
	c.OilProduced.Set(rec.OilProduced)
	c.SteamInjected.Set(rec.SteamInjected)
	c.SteamOilRatio.Set(rec.SOR)
	c.MeanTemperature.Set(temp.Mean)
	c.StepDurations.Observe(dt.Seconds())
}

// StepListener adapts the collector to SAGD2D.WithStepListener.
func (c *SAGDCollector) StepListener() SAGD2D.StepListener {
	return func(s *SAGD2D.SAGD, rec SAGD2D.Record, dt time.Duration) {
		c.Observe(rec, s.FieldStats(SAGD2D.FieldTemperature), dt)
	}
}

// Handler serves the registry the collector was registered with.
func (c *SAGDCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
