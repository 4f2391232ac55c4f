package SAGD2D

import (
	"context"
	"fmt"
	"time"

	"github.com/notargets/gosagd/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/notargets/gosagd/model_problems/SAGD2D"

// Run advances the model by steps time steps. The context is checked between
// steps only, a step that has started always completes.
func (s *SAGD) Run(ctx context.Context, steps int, verbose bool) (err error) {
	var (
		tracer   = otel.Tracer(tracerName)
		elapsed  time.Duration
		printN   = s.Cfg.PrintEvery
		finished int
	)
	ctx, span := tracer.Start(ctx, "sagd.run", trace.WithAttributes(
		attribute.Int("sagd.steps", steps),
		attribute.Int("sagd.width", s.Width),
		attribute.Int("sagd.height", s.Height),
		attribute.String("sagd.activation", s.activation.String()),
	))
	defer func() {
		span.SetAttributes(attribute.Int("sagd.steps_completed", finished))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	if printN <= 0 {
		printN = 1
	}
	if verbose {
		s.PrintInitialization(steps)
	}
	for finished < steps {
		if err = ctx.Err(); err != nil {
			return
		}
		_, stepSpan := tracer.Start(ctx, "sagd.step")
		start := time.Now()
		rec := s.AdvanceStep()
		elapsed += time.Since(start)
		stepSpan.SetAttributes(
			attribute.Int("sagd.step", rec.Step),
			attribute.Float64("sagd.oil_produced", rec.OilProduced),
			attribute.Float64("sagd.steam_injected", rec.SteamInjected),
			attribute.Float64("sagd.sor", rec.SOR),
		)
		stepSpan.End()
		finished++
		if verbose && (finished == 1 || finished == steps || rec.Step%printN == 0) {
			s.PrintUpdate(rec)
		}
	}
	if verbose {
		s.PrintFinal(elapsed, finished)
	}
	return
}

func (s *SAGD) PrintInitialization(steps int) {
	fmt.Fprintf(s.out, "SAGD Reservoir in 2 Dimensions\n")
	fmt.Fprintf(s.out, "Grid = %d x %d, %d cells, activation = %s, seed = %d\n",
		s.Width, s.Height, s.grid.Len(), s.activation, s.Cfg.Seed)
	fmt.Fprintf(s.out, "Injection well: %s, Production well: %s\n", s.Cfg.Injection, s.Cfg.Production)
	fmt.Fprintf(s.out, "Injection rate = %8.4f, Steam temperature = %8.2f, Reservoir temperature = %8.2f\n",
		s.Cfg.InjectionRate, s.Cfg.SteamTemp, s.Cfg.ReservoirTemp)
	fmt.Fprintf(s.out, "Steps = %d\n\n", steps)
	fmt.Fprintf(s.out, "%8s%16s%16s%12s%14s\n", "Step", "Oil Produced", "Steam Injected", "SOR", "Mean Temp")
}

func (s *SAGD) PrintUpdate(rec Record) {
	ts := s.FieldStats(FieldTemperature)
	fmt.Fprintf(s.out, "%8d%16.6f%16.6f%12.4f%14.4f\n",
		rec.Step, rec.OilProduced, rec.SteamInjected, rec.SOR, ts.Mean)
}

func (s *SAGD) PrintFinal(elapsed time.Duration, steps int) {
	rate := float64(elapsed.Microseconds()) / float64(max(steps, 1))
	fmt.Fprintf(s.out, "\nCompleted %d steps in %v, %8.2f us per step\n", steps, elapsed, rate)
	fmt.Fprintf(s.out, "Oil saturation: %s\n", s.FieldStats(FieldOil))
	fmt.Fprintf(s.out, "Temperature:    %s\n", s.FieldStats(FieldTemperature))
	fmt.Fprintf(s.out, "Memory: %s\n", utils.GetMemUsage())
}
