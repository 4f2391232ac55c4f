package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gosagd/InputParameters"
	"github.com/notargets/gosagd/model_problems/SAGD2D"
	"github.com/notargets/gosagd/store"
)

var fileInput = []byte(`
Title: Test Case
Width: 6
Height: 5
Steps: 8
Seed: 7
Activation: sequential
InjectionWell:
  Layout: point
  Column: 2
  Row: 4
ProductionWell:
  Layout: row
  Row: 2
`)

func writeInput(t *testing.T) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(fn, fileInput, 0644))
	return fn
}

func TestProcessInput(t *testing.T) {
	var buf bytes.Buffer
	_, err := processInput(&ModelSAGD{}, &buf)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "Example File:")

	_, err = processInput(&ModelSAGD{ICFile: filepath.Join(t.TempDir(), "missing.yaml")}, &buf)
	assert.Error(t, err)

	ip, err := processInput(&ModelSAGD{ICFile: writeInput(t)}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "Test Case", ip.Title)
	assert.Equal(t, 6, ip.Width)
	require.NotNil(t, ip.InjectionWell)
	assert.Equal(t, "point", ip.InjectionWell.Layout)
	_, _, _, cfg, err := ip.Config()
	require.NoError(t, err)
	assert.Equal(t, SAGD2D.PointWell(2, 4), cfg.Injection)
	assert.Equal(t, SAGD2D.RowWell(2), cfg.Production)
}

func TestExampleFileParses(t *testing.T) {
	var ip InputParameters.InputParametersSAGD
	require.NoError(t, ip.Parse([]byte(exampleFile)))
	w, h, steps, cfg, err := ip.Config()
	require.NoError(t, err)
	assert.Equal(t, 20, w)
	assert.Equal(t, 20, h)
	assert.Equal(t, 100, steps)
	assert.NoError(t, cfg.Validate(w, h))
	assert.Equal(t, SAGD2D.RowWell(19), cfg.Injection)
	assert.Equal(t, SAGD2D.RowWell(17), cfg.Production)
}

func TestRunSAGD(t *testing.T) {
	var (
		dir = t.TempDir()
		out bytes.Buffer
		ms  = &ModelSAGD{
			ICFile:     writeInput(t),
			Steps:      4,
			DBFile:     filepath.Join(dir, "run.db"),
			AgentEvery: 2,
			FieldsOut:  filepath.Join(dir, "fields.csv"),
			LogLevel:   "error",
		}
	)
	ip, err := processInput(ms, &out)
	require.NoError(t, err)
	require.NoError(t, RunSAGD(context.Background(), ms, ip, &out))
	assert.Contains(t, out.String(), "SAGD Reservoir in 2 Dimensions")
	assert.Contains(t, out.String(), "Completed 4 steps")

	st, err := store.Open(context.Background(), ms.DBFile)
	require.NoError(t, err)
	defer st.Close()
	series, err := st.Series(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.Equal(t, 4, series[3].Step)
	samples, err := st.CellSamples(context.Background(), 1, 4)
	require.NoError(t, err)
	assert.Len(t, samples, 30)

	f, err := os.Open(ms.FieldsOut)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 31)
	assert.Equal(t, fieldsHeader, rows[0])
	assert.Equal(t, []string{"0", "0"}, rows[1][:2])
	// The injector at column 2, row 4 is the hottest cell
	inj := rows[1+4*6+2]
	assert.Equal(t, []string{"2", "4"}, inj[:2])
	maxTemp := inj[5]
	for _, row := range rows[1:] {
		assert.LessOrEqual(t, parseFloat(t, row[5]), parseFloat(t, maxTemp), row)
	}
}

func parseFloat(t *testing.T, s string) float64 {
	t.Helper()
	f, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return f
}

func TestRunSAGDErrors(t *testing.T) {
	var out bytes.Buffer
	ip := &InputParameters.InputParametersSAGD{Width: 4, Height: 4}
	err := RunSAGD(context.Background(), &ModelSAGD{Profile: "gpu", Quiet: true}, ip, &out)
	assert.Error(t, err)

	// Injection well off the grid, rejected before the database is created
	ip.InjectionWell = &InputParameters.WellParameters{Layout: "point", Column: 9, Row: 9}
	dbFile := filepath.Join(t.TempDir(), "run.db")
	err = RunSAGD(context.Background(), &ModelSAGD{Quiet: true, LogLevel: "error", DBFile: dbFile}, ip, &out)
	assert.True(t, errors.Is(err, SAGD2D.ErrInvalidConfig))
	_, err = os.Stat(dbFile)
	assert.True(t, os.IsNotExist(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ip.InjectionWell = nil
	err = RunSAGD(ctx, &ModelSAGD{Quiet: true, LogLevel: "error"}, ip, &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeFields(&buf, nil))
	assert.Equal(t, strings.Join(fieldsHeader, ",")+"\n", buf.String())
}
