package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gosagd/model_problems/SAGD2D"
	"github.com/notargets/gosagd/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs", "sagd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreSeries(t *testing.T) {
	var (
		ctx = context.Background()
		s   = newTestStore(t)
		cfg = SAGD2D.DefaultConfig(4, 4)
	)
	runID, err := s.BeginRun(ctx, "series", 4, 4, cfg)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	recs := []SAGD2D.Record{
		{Step: 1, OilProduced: 0.5, SteamInjected: 0.4, SOR: 0.8},
		{Step: 2, OilProduced: 1.0, SteamInjected: 0.8, SOR: 0.8},
	}
	for _, rec := range recs {
		require.NoError(t, s.RecordStep(ctx, runID, rec))
	}
	series, err := s.Series(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, recs, series)

	// Steps are unique per run
	assert.Error(t, s.RecordStep(ctx, runID, recs[0]))

	// A second run is kept separate
	other, err := s.BeginRun(ctx, "other", 4, 4, cfg)
	require.NoError(t, err)
	series, err = s.Series(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestStoreRecorder(t *testing.T) {
	var (
		ctx = context.Background()
		s   = newTestStore(t)
		cfg = SAGD2D.DefaultConfig(5, 5)
	)
	cfg.Activation = types.Sequential
	runID, err := s.BeginRun(ctx, "recorder", 5, 5, cfg)
	require.NoError(t, err)
	rc := s.Recorder(ctx, runID, 2)
	m, err := SAGD2D.NewSAGD(5, 5, cfg, SAGD2D.WithStepListener(rc.StepListener()))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		m.AdvanceStep()
	}
	require.NoError(t, rc.Err())

	series, err := s.Series(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, m.Metrics.Series(), series)

	// Cell reporters only at steps 2 and 4
	samples, err := s.CellSamples(ctx, runID, 1)
	require.NoError(t, err)
	assert.Empty(t, samples)
	samples, err = s.CellSamples(ctx, runID, 4)
	require.NoError(t, err)
	require.Len(t, samples, 25)
	for _, cs := range samples {
		snap, ok := m.CellSnapshot(types.Position{X: cs.X, Y: cs.Y})
		require.True(t, ok)
		assert.InDelta(t, snap.Oil, cs.OilSaturation, 1e-12)
		assert.InDelta(t, snap.Temperature, cs.Temperature, 1e-12)
	}
}

func TestStoreInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()
	runID, err := s.BeginRun(ctx, "memory", 3, 3, SAGD2D.DefaultConfig(3, 3))
	require.NoError(t, err)
	require.NoError(t, s.RecordStep(ctx, runID, SAGD2D.Record{Step: 1}))
	series, err := s.Series(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, series, 1)
}
