package InputParameters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gosagd/model_problems/SAGD2D"
	"github.com/notargets/gosagd/types"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: "SAGD pair"
Width: 12
Height: 10
Steps: 50
Seed: 7
Activation: sequential
InjectionRate: 0.2
SteamTemp: 220.
TempCoefficient: -0.04
PorosityJitter: [0.95, 1.05]
InjectionWell:
  Layout: row
  Row: 9
ProductionWell:
  Layout: point
  Column: 6
  Row: 7
`)
	var ip InputParametersSAGD
	require.NoError(t, ip.Parse(fileInput))
	assert.Equal(t, "SAGD pair", ip.Title)
	assert.Equal(t, 12, ip.Width)
	assert.Equal(t, 0.2, ip.InjectionRate)
	require.NotNil(t, ip.ProductionWell)
	assert.Equal(t, "point", ip.ProductionWell.Layout)
	assert.Equal(t, 6, ip.ProductionWell.Column)
	assert.Equal(t, 7, ip.ProductionWell.Row)

	var buf bytes.Buffer
	ip.Print(&buf)
	assert.Contains(t, buf.String(), "SAGD pair")

	W, H, steps, cfg, err := ip.Config()
	require.NoError(t, err)
	assert.Equal(t, 12, W)
	assert.Equal(t, 10, H)
	assert.Equal(t, 50, steps)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, types.Sequential, cfg.Activation)
	assert.Equal(t, 0.2, cfg.InjectionRate)
	assert.Equal(t, 220., cfg.SteamTemp)
	assert.Equal(t, -0.04, cfg.TempCoefficient)
	assert.Equal(t, [2]float64{0.95, 1.05}, cfg.PorosityJitter)
	assert.Equal(t, SAGD2D.RowWell(9), cfg.Injection)
	assert.Equal(t, SAGD2D.PointWell(6, 7), cfg.Production)
	// Unset values keep the defaults
	def := SAGD2D.DefaultConfig(12, 10)
	assert.Equal(t, def.BaseViscosity, cfg.BaseViscosity)
	assert.Equal(t, def.PermeabilityJitter, cfg.PermeabilityJitter)
	assert.NoError(t, cfg.Validate(W, H))
}

func TestDefaults(t *testing.T) {
	var ip InputParametersSAGD
	require.NoError(t, ip.Parse([]byte(`Title: defaults`)))
	W, H, steps, cfg, err := ip.Config()
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, W)
	assert.Equal(t, DefaultHeight, H)
	assert.Equal(t, DefaultSteps, steps)
	assert.Equal(t, SAGD2D.DefaultConfig(W, H), cfg)
}

func TestBadInput(t *testing.T) {
	inputs := []string{
		"InjectionWell: {Layout: vertical}",
		"Activation: parallel",
		"PorosityJitter: [0.9]",
	}
	for _, in := range inputs {
		var ip InputParametersSAGD
		require.NoError(t, ip.Parse([]byte(in)))
		_, _, _, _, err := ip.Config()
		assert.Error(t, err, in)
	}
	var ip InputParametersSAGD
	assert.Error(t, ip.Parse([]byte("Width: [1, 2")))
}
