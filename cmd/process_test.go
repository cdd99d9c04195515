package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/cpgrid/readfiles"
)

var (
	modelFile = []byte(`
dims: [1, 1, 3]
coord: [0, 0, 0, 0, 0, 3,
        1, 0, 0, 1, 0, 3,
        0, 1, 0, 0, 1, 3,
        1, 1, 0, 1, 1, 3]
zcorn: [0, 0, 0, 0, 1, 1, 1, 1,
        1, 1, 1, 1, 1.1, 1.1, 1.1, 1.1,
        1.1, 1.1, 1.1, 1.1, 2.1, 2.1, 2.1, 2.1]
poro: [0.2, 0.2, 0.2]
`)
	paramFile = []byte(`
Title: thin middle layer
Tolerance: 1.e-6
PinchActive: true
Pinch:
  MinPoreVolume: 0.05
`)
)

func writeInputs(t *testing.T) (pr *Process) {
	dir := t.TempDir()
	pr = &Process{
		ModelFile: filepath.Join(dir, "model.yaml"),
		ParamFile: filepath.Join(dir, "params.yaml"),
	}
	require.NoError(t, os.WriteFile(pr.ModelFile, modelFile, 0644))
	require.NoError(t, os.WriteFile(pr.ParamFile, paramFile, 0644))
	return
}

func TestRunPinch(t *testing.T) {
	var (
		pr  = writeInputs(t)
		out bytes.Buffer
	)
	pr.OutputFile = filepath.Join(t.TempDir(), "pinched.yaml")
	require.NoError(t, RunPinch(pr, &out))
	assert.Contains(t, out.String(), "Removed cells: [1]")
	assert.Contains(t, out.String(), "NNC 0 - 2")
	cp, err := readfiles.ReadCornerPoint(pr.OutputFile, false)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, cp.Actnum)
	m, err := cp.Model()
	require.NoError(t, err)
	assert.Equal(t, [8]float64{1, 1, 1, 1, 1, 1, 1, 1}, m.CellCorners(0, 0, 1))
}

func TestRunProcess(t *testing.T) {
	{ // Pinch then build from files
		var (
			pr  = writeInputs(t)
			out bytes.Buffer
		)
		require.NoError(t, RunProcess(pr, &out))
		var summary struct {
			FaceCounts      map[string]int `json:"faceCounts"`
			ActiveCellIndex []int          `json:"activeCellIndex"`
		}
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &summary))
		assert.Equal(t, []int{0, 2}, summary.ActiveCellIndex)
		assert.Equal(t, map[string]int{"I": 4, "J": 4, "K": 4, "NNC": 1}, summary.FaceCounts)
	}
	{ // A box without parameters
		var (
			pr  = &Process{Box: "2,1,3", Full: true, Workers: 2}
			out bytes.Buffer
		)
		require.NoError(t, RunProcess(pr, &out))
		var grid struct {
			Vertices [][3]float64 `json:"vertices"`
			Faces    []struct {
				Tag string `json:"tag"`
			} `json:"faces"`
		}
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &grid))
		assert.Len(t, grid.Vertices, 24)
		// I and J faces for each of the 3 layers, K faces for each of the 2 columns
		assert.Len(t, grid.Faces, 3*3+4*3+2*4)
	}
	{ // Missing inputs
		err := RunProcess(&Process{}, &bytes.Buffer{})
		assert.Error(t, err)
		err = RunProcess(&Process{Box: "2,1"}, &bytes.Buffer{})
		assert.Error(t, err)
		err = RunProcess(&Process{Box: "2,x,1"}, &bytes.Buffer{})
		assert.Error(t, err)
		pr := writeInputs(t)
		require.NoError(t, os.WriteFile(pr.ParamFile, []byte(`Tolerance: -1`), 0644))
		err = RunProcess(pr, &bytes.Buffer{})
		assert.Error(t, err)
	}
}
