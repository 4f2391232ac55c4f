package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Well layout labels
		tokens := []string{"row", "Horizontal", " point ", "single", "NONE", ""}
		layouts := []WellLayout{WellRow, WellRow, WellPoint, WellPoint, WellNone, WellNone}
		for i, token := range tokens {
			wl, err := NewWellLayout(token)
			assert.NoError(t, err)
			assert.Equal(t, layouts[i], wl)
		}
		_, err := NewWellLayout("vertical")
		assert.Error(t, err)
		assert.Equal(t, "row", WellRow.String())
		assert.Equal(t, "WellLayout(9)", WellLayout(9).String())
	}
	{ // Activation labels
		ao, err := NewActivationOrder("Sequential")
		assert.NoError(t, err)
		assert.Equal(t, Sequential, ao)
		ao, err = NewActivationOrder("")
		assert.NoError(t, err)
		assert.Equal(t, Shuffled, ao)
		_, err = NewActivationOrder("parallel")
		assert.Error(t, err)
	}
	{ // Positions
		p := Position{X: 2, Y: 3}
		assert.Equal(t, Position{X: 1, Y: 4}, p.Add(-1, 1))
		assert.Equal(t, "(2, 3)", p.String())
	}
}
