package cornerpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestModel_Indexing(t *testing.T) {
	var (
		m = NewCartesian(3, 2, 4, 1, 1, 1)
	)
	require.NoError(t, m.Validate())
	assert.Equal(t, 24, m.NumCells())
	assert.Equal(t, 12, m.NumPillars())
	for c := 0; c < m.NumCells(); c++ {
		i, j, k := m.CellIJK(c)
		assert.Equal(t, c, m.CellIndex(i, j, k))
	}
	assert.Equal(t, [4]int{5, 6, 9, 10}, m.ColumnPillars(1, 1))
	{ // Corner positions of the first and last cells
		assert.Equal(t, [8]int{0, 1, 6, 7, 24, 25, 30, 31}, CornerIndices(m.Dims, 0, 0, 0))
		idx := CornerIndices(m.Dims, 2, 1, 3)
		assert.Equal(t, 8*m.NumCells()-1, idx[7])
	}
	{ // Every Zcorn position belongs to exactly one cell corner
		seen := make([]int, len(m.Zcorn))
		for k := 0; k < 4; k++ {
			for j := 0; j < 2; j++ {
				for i := 0; i < 3; i++ {
					for _, ind := range CornerIndices(m.Dims, i, j, k) {
						seen[ind]++
					}
				}
			}
		}
		for _, s := range seen {
			assert.Equal(t, 1, s)
		}
	}
	{ // Get and set round trip through the box layout
		z := [8]float64{1, 2, 3, 4, 5, 6, 7, 8}
		SetCellZcorn(m.Dims, 1, 1, 2, z, m.Zcorn)
		assert.Equal(t, z, m.CellCorners(1, 1, 2))
	}
}

func TestModel_Validate(t *testing.T) {
	var (
		good = NewCartesian(2, 2, 2, 1, 1, 1)
	)
	m, err := NewModel(good.Dims, good.Coord, good.Zcorn, nil)
	require.NoError(t, err)
	assert.True(t, m.IsActive(3))
	for name, mod := range map[string]func(m *Model){
		"dims":   func(m *Model) { m.Dims[2] = 0 },
		"coord":  func(m *Model) { m.Coord = m.Coord[:6] },
		"zcorn":  func(m *Model) { m.Zcorn = append(m.Zcorn, 0) },
		"actnum": func(m *Model) { m.Actnum = []int{1, 1} },
		"nan":    func(m *Model) { m.Zcorn[3] = math.NaN() },
		"inf":    func(m *Model) { m.Coord[1] = math.Inf(1) },
	} {
		bad := NewCartesian(2, 2, 2, 1, 1, 1)
		mod(bad)
		_, err := NewModel(bad.Dims, bad.Coord, bad.Zcorn, bad.Actnum)
		assert.ErrorIs(t, err, ErrInvalidArgument, name)
	}
	m.Actnum = []int{1, 0, 1, 1, 1, 1, 1, 1}
	assert.False(t, m.IsActive(1))
	assert.Equal(t, Connection{Cell1: 2, Cell2: 7}, NewConnection(7, 2))
}

func TestModel_PillarPoint(t *testing.T) {
	var (
		m = NewCartesian(1, 1, 1, 1, 1, 1)
	)
	// Slant the first pillar by one unit in x over its depth
	m.Coord[3] = 1
	pt, err := m.PillarPoint(0, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(r3.Vec{X: 0.25, Y: 0, Z: 0.25}, pt)), 1e-15)
	m.Coord[5] = m.Coord[2]
	_, err = m.PillarPoint(0, 0.25)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestModel_Volumes(t *testing.T) {
	var (
		m = NewCartesian(2, 1, 3, 2, 3, 0.5)
	)
	th := m.CellThickness()
	require.Len(t, th, 6)
	for _, v := range th {
		assert.InDelta(t, 0.5, v, 1e-15)
	}
	bv, err := m.BulkVolumes()
	require.NoError(t, err)
	for _, v := range bv {
		assert.InDelta(t, 3, v, 1e-12)
	}
	{ // Collapsing one corner lowers the mean thickness
		z := m.CellCorners(0, 0, 0)
		z[4] = z[0]
		SetCellZcorn(m.Dims, 0, 0, 0, z, m.Zcorn)
		th = m.CellThickness()
		assert.InDelta(t, 0.375, th[0], 1e-15)
	}
	pv, err := m.PoreVolumes([]float64{0.1, 0.2, 0.1, 0.2, 0.1, 0.2}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, pv[1], 1e-12)
	assert.InDelta(t, 0.225, pv[0], 1e-12)
	pv, err = m.PoreVolumes([]float64{0.1, 0.2, 0.1, 0.2, 0.1, 0.2}, []float64{1, 0.5, 1, 1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, pv[1], 1e-12)
	_, err = m.PoreVolumes([]float64{0.1}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = m.PoreVolumes(make([]float64, 6), []float64{1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
