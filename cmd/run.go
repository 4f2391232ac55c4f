/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gosagd/InputParameters"
	"github.com/notargets/gosagd/logging"
	"github.com/notargets/gosagd/model_problems/SAGD2D"
	"github.com/notargets/gosagd/observability"
	"github.com/notargets/gosagd/store"
	"github.com/notargets/gosagd/utils"
)

type ModelSAGD struct {
	ICFile      string
	Steps       int // Overrides the input file when > 0
	DBFile      string
	AgentEvery  int
	FieldsOut   string
	MetricsAddr string
	Trace       string
	Profile     string
	LogLevel    string
	LogFormat   string
	Quiet       bool
}

const exampleFile = `
########################################
Title: "Test Case"
Width: 20
Height: 20
Steps: 100
Seed: 1
Activation: shuffled # Can be "sequential"
InjectionRate: 0.1
SteamTemp: 250
InjectionWell:
  Layout: row # Can be "point" or "none"
  Row: 19
ProductionWell:
  Layout: row
  Row: 17
########################################
`

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a SAGD reservoir model from an input parameters file",
	Long: `Run a SAGD reservoir model from an input parameters file, printing the oil
produced and the steam to oil ratio as the model advances. Optionally records
the time series to SQLite, serves Prometheus metrics and exports trace spans.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ms := &ModelSAGD{
			ICFile:      viper.GetString("inputConditionsFile"),
			Steps:       viper.GetInt("steps"),
			DBFile:      viper.GetString("db"),
			AgentEvery:  viper.GetInt("agentEvery"),
			FieldsOut:   viper.GetString("fieldsOut"),
			MetricsAddr: viper.GetString("metricsAddr"),
			Trace:       viper.GetString("trace"),
			Profile:     viper.GetString("profile"),
			LogLevel:    viper.GetString("logLevel"),
			LogFormat:   viper.GetString("logFormat"),
			Quiet:       viper.GetBool("quiet"),
		}
		ip, err := processInput(ms, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return RunSAGD(ctx, ms, ip, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Width, Height\n\t- InjectionRate\n\t- InjectionWell, ProductionWell")
	RunCmd.Flags().IntP("steps", "n", 0, "number of steps, overrides Steps in the input file")
	RunCmd.Flags().String("db", "", "SQLite file to record the step series and cell samples")
	RunCmd.Flags().Int("agentEvery", 0, "record cell oil saturation and temperature every N steps, 0 = never")
	RunCmd.Flags().String("fieldsOut", "", "CSV file for the final cell fields")
	RunCmd.Flags().String("metricsAddr", "", "address to serve Prometheus metrics on, e.g. :9090")
	RunCmd.Flags().String("trace", "none", "trace exporter: none, stdout or otlp")
	RunCmd.Flags().String("traceEndpoint", "localhost:4317", "OTLP gRPC endpoint when --trace otlp")
	RunCmd.Flags().String("profile", "", "write a pprof profile: cpu or mem")
	RunCmd.Flags().String("logLevel", "info", "log level: debug, info, warn or error")
	RunCmd.Flags().String("logFormat", "text", "log format: text or json")
	RunCmd.Flags().BoolP("quiet", "q", false, "do not print the step table")
	if err := viper.BindPFlags(RunCmd.Flags()); err != nil {
		panic(err)
	}
}

func processInput(ms *ModelSAGD, w io.Writer) (ip *InputParameters.InputParametersSAGD, err error) {
	var data []byte
	if len(ms.ICFile) == 0 {
		fmt.Fprintf(w, "Example File:%s\n", exampleFile)
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
	}
	if data, err = os.ReadFile(ms.ICFile); err != nil {
		return nil, fmt.Errorf("read input parameters: %w", err)
	}
	ip = &InputParameters.InputParametersSAGD{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ms.ICFile, err)
	}
	return
}

// RunSAGD builds the model described by ip and advances it, wiring the
// optional recorders named in ms.
func RunSAGD(ctx context.Context, ms *ModelSAGD, ip *InputParameters.InputParametersSAGD, out io.Writer) (err error) {
	var (
		width, height, steps int
		cfg                  SAGD2D.Config
		opts                 []SAGD2D.Option
	)
	log := logging.New(logging.Config{Level: ms.LogLevel, Format: ms.LogFormat})
	if width, height, steps, cfg, err = ip.Config(); err != nil {
		return
	}
	if err = cfg.Validate(width, height); err != nil {
		return
	}
	if ms.Steps > 0 {
		steps = ms.Steps
	}
	log = log.With(logging.String("title", ip.Title))

	switch ms.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile %q, want cpu or mem", ms.Profile)
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Exporter: ms.Trace,
		Endpoint: viper.GetString("traceEndpoint"),
		Writer:   out,
	}, log)
	if err != nil {
		return
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	opts = append(opts,
		SAGD2D.WithOutput(out),
		SAGD2D.WithObserver(func(e SAGD2D.Event) {
			log.Warn(ctx, "grid construction",
				logging.String("event", e.Kind.String()),
				logging.String("position", e.Pos.String()),
				logging.String("detail", e.Message))
		}),
	)

	if ms.MetricsAddr != "" {
		var (
			collector *observability.SAGDCollector
			stopSrv   func()
		)
		if collector, err = observability.NewSAGDCollector(prometheus.NewRegistry()); err != nil {
			return
		}
		stopSrv = serveMetrics(ctx, ms.MetricsAddr, collector.Handler(), log)
		defer stopSrv()
		opts = append(opts, SAGD2D.WithStepListener(collector.StepListener()))
	}

	var (
		st    *store.SQLiteStore
		rc    *store.Recorder
		runID int64
	)
	if ms.DBFile != "" {
		if st, err = store.Open(ctx, ms.DBFile); err != nil {
			return
		}
		defer st.Close()
		if runID, err = st.BeginRun(ctx, ip.Title, width, height, cfg); err != nil {
			return
		}
		rc = st.Recorder(ctx, runID, ms.AgentEvery)
		opts = append(opts, SAGD2D.WithStepListener(rc.StepListener()))
		log.Info(ctx, "recording run", logging.String("db", ms.DBFile), logging.Any("run_id", runID))
	}

	if !ms.Quiet {
		ip.Print(out)
	}
	model, err := SAGD2D.NewSAGD(width, height, cfg, opts...)
	if err != nil {
		log.Error(ctx, "model construction failed", logging.Err(err))
		return
	}
	if err = model.Run(ctx, steps, !ms.Quiet); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn(ctx, "run interrupted", logging.Int("steps", model.Steps()))
		}
		return
	}
	if rc != nil {
		if err = rc.Err(); err != nil {
			return
		}
	}
	for _, fk := range []SAGD2D.FieldKind{SAGD2D.FieldOil, SAGD2D.FieldTemperature} {
		if i := utils.FirstNonFinite(model.Field(fk).RawMatrix().Data); i >= 0 {
			log.Warn(ctx, "non-finite field value",
				logging.String("field", fk.String()), logging.Int("index", i))
		}
	}
	log.Info(ctx, "run complete",
		logging.Int("steps", model.Steps()),
		logging.Float("oil_produced", model.Metrics.TotalOilProduced()),
		logging.Float("sor", model.Metrics.SOR()))
	if ms.FieldsOut != "" {
		if err = writeFields(ms.FieldsOut, model.Snapshot()); err != nil {
			return
		}
	}
	return
}

func serveMetrics(ctx context.Context, addr string, h http.Handler, log logging.Logger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logging.Err(err))
		}
	}()
	log.Info(ctx, "serving metrics", logging.String("addr", addr))
	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}
}

var fieldsHeader = []string{"x", "y", "oil", "water", "steam", "temperature", "pressure", "porosity", "permeability"}

func writeFields(path string, cells []SAGD2D.CellSnapshot) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return fmt.Errorf("create fields file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encodeFields(f, cells)
}

func encodeFields(w io.Writer, cells []SAGD2D.CellSnapshot) error {
	var (
		cw  = csv.NewWriter(w)
		ff  = func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
		row = make([]string, len(fieldsHeader))
	)
	if err := cw.Write(fieldsHeader); err != nil {
		return err
	}
	for _, c := range cells {
		row[0], row[1] = strconv.Itoa(c.Pos.X), strconv.Itoa(c.Pos.Y)
		row[2], row[3], row[4] = ff(c.Oil), ff(c.Water), ff(c.Steam)
		row[5], row[6] = ff(c.Temperature), ff(c.Pressure)
		row[7], row[8] = ff(c.Porosity), ff(c.Permeability)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
