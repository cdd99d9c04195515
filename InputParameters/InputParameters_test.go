package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/cpgrid/pinch"
)

func TestRunParameters(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Tolerance: 1.e-4
PinchActive: true
Pinch:
  Threshold: 0.51
  MaxGap: 1.e20
  MinPoreVolume: 0.4
  NoGap: true
Aquifers: [7, 3]
`)
	rp := NewRunParameters()
	require.NoError(t, rp.Parse(fileInput))
	require.NoError(t, rp.Validate())
	assert.Equal(t, "Test Case", rp.Title)
	assert.Equal(t, 1.e-4, rp.Tolerance)
	assert.True(t, rp.PinchActive)
	assert.Equal(t, pinch.Policy{Threshold: 0.51, MaxGap: 1e20, NoGap: true}, rp.Policy())
	assert.Equal(t, 0.4, rp.Pinch.MinPoreVolume)
	isAq := rp.IsAquifer()
	require.NotNil(t, isAq)
	assert.True(t, isAq(3))
	assert.False(t, isAq(4))
	rp.Print()
	{ // Defaults survive a sparse file
		rp := NewRunParameters()
		require.NoError(t, rp.Parse([]byte(`Title: defaults`)))
		assert.Equal(t, 1.e-6, rp.Tolerance)
		assert.Equal(t, 1.e20, rp.Pinch.MaxGap)
		assert.Nil(t, rp.IsAquifer())
	}
	{ // The example file is valid
		rp := NewRunParameters()
		require.NoError(t, rp.Parse([]byte(ExampleFile)))
		assert.NoError(t, rp.Validate())
	}
	{ // Invalid values
		for _, doc := range []string{
			`Tolerance: 0`,
			`Pinch: {Threshold: -1}`,
			`Pinch: {MaxGap: -1}`,
			`Pinch: {MinPoreVolume: -1}`,
			`Pinch: {Porosity: 2}`,
			`MaxFaces: -1`,
		} {
			rp := NewRunParameters()
			require.NoError(t, rp.Parse([]byte(doc)))
			assert.Error(t, rp.Validate(), doc)
		}
	}
}
