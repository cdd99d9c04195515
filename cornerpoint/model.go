// Package cornerpoint holds the raw corner-point description of a geological
// model: a Cartesian box of cells whose vertical edges lie on straight
// pillars, with eight corner depths per cell and an optional active map.
package cornerpoint

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/cpgrid/utils"
)

// Model is the in-memory corner-point specification.
//
// Coord holds two end points per pillar (x1,y1,z1,x2,y2,z2), pillars ordered
// with i fastest over a (nx+1) x (ny+1) lattice. Zcorn holds the corner
// depths in the usual (2nx) x (2ny) x (2nz) layout with i fastest. Actnum is
// either empty, meaning all cells are active, or has one entry per cell where
// non-zero means active.
type Model struct {
	Dims   [3]int
	Coord  []float64
	Zcorn  []float64
	Actnum []int
}

// Connection names two cells, by linear index, linked across removed layers.
type Connection struct {
	Cell1, Cell2 int
}

// NewConnection orders the pair so that Cell1 < Cell2.
func NewConnection(c1, c2 int) Connection {
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	return Connection{Cell1: c1, Cell2: c2}
}

func NewModel(dims [3]int, coord, zcorn []float64, actnum []int) (m *Model, err error) {
	m = &Model{
		Dims:   dims,
		Coord:  coord,
		Zcorn:  zcorn,
		Actnum: actnum,
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

// Validate checks every array length against the box dimensions.
func (m *Model) Validate() (err error) {
	var (
		nx, ny, nz = m.Dims[0], m.Dims[1], m.Dims[2]
	)
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, have %v",
			ErrInvalidArgument, m.Dims)
	}
	if len(m.Coord) != 6*(nx+1)*(ny+1) {
		return fmt.Errorf("%w: coord has %d values, expected %d",
			ErrInvalidArgument, len(m.Coord), 6*(nx+1)*(ny+1))
	}
	if len(m.Zcorn) != 8*m.NumCells() {
		return fmt.Errorf("%w: zcorn has %d values, expected %d",
			ErrInvalidArgument, len(m.Zcorn), 8*m.NumCells())
	}
	if len(m.Actnum) != 0 && len(m.Actnum) != m.NumCells() {
		return fmt.Errorf("%w: actnum has %d values, expected 0 or %d",
			ErrInvalidArgument, len(m.Actnum), m.NumCells())
	}
	if n := utils.FirstNonFinite(m.Coord); n >= 0 {
		return fmt.Errorf("%w: coord value %d is %v", ErrInvalidArgument, n, m.Coord[n])
	}
	if n := utils.FirstNonFinite(m.Zcorn); n >= 0 {
		return fmt.Errorf("%w: zcorn value %d is %v", ErrInvalidArgument, n, m.Zcorn[n])
	}
	return
}

func (m *Model) NumCells() int { return m.Dims[0] * m.Dims[1] * m.Dims[2] }

func (m *Model) NumPillars() int { return (m.Dims[0] + 1) * (m.Dims[1] + 1) }

// CellIndex is the linear index of cell (i,j,k), i fastest.
func (m *Model) CellIndex(i, j, k int) int {
	return i + m.Dims[0]*(j+m.Dims[1]*k)
}

func (m *Model) CellIJK(c int) (i, j, k int) {
	var (
		nx, ny = m.Dims[0], m.Dims[1]
	)
	i = c % nx
	j = (c / nx) % ny
	k = c / (nx * ny)
	return
}

func (m *Model) IsActive(c int) bool {
	return len(m.Actnum) == 0 || m.Actnum[c] != 0
}

// PillarIndex returns the pillar at lattice position (pi,pj).
func (m *Model) PillarIndex(pi, pj int) int {
	return pi + (m.Dims[0]+1)*pj
}

// ColumnPillars returns the four pillars of column (i,j) in corner order:
// (i,j), (i+1,j), (i,j+1), (i+1,j+1).
func (m *Model) ColumnPillars(i, j int) (p [4]int) {
	for q := 0; q < 4; q++ {
		p[q] = m.PillarIndex(i+(q&1), j+(q>>1))
	}
	return
}

// PillarEnds returns the two defining points of pillar p.
func (m *Model) PillarEnds(p int) (top, bottom r3.Vec) {
	c := m.Coord[6*p : 6*p+6]
	top = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
	bottom = r3.Vec{X: c[3], Y: c[4], Z: c[5]}
	return
}

// PillarPoint interpolates the point on pillar p at depth z.
func (m *Model) PillarPoint(p int, z float64) (pt r3.Vec, err error) {
	var (
		top, bottom = m.PillarEnds(p)
		dz          = bottom.Z - top.Z
	)
	if dz == 0 {
		err = fmt.Errorf("%w: pillar %d has no depth extent", ErrDegenerateGeometry, p)
		return
	}
	t := (z - top.Z) / dz
	pt = r3.Add(top, r3.Scale(t, r3.Sub(bottom, top)))
	pt.Z = z
	return
}

// CornerIndices returns the Zcorn positions of the eight corners of cell
// (i,j,k): four top corners in column corner order, then four bottom corners.
func CornerIndices(dims [3]int, i, j, k int) (idx [8]int) {
	var (
		d0, d1, d2 = 1, 2 * dims[0], 4 * dims[0] * dims[1]
		base       = 2 * (i*d0 + j*d1 + k*d2)
	)
	idx = [8]int{
		base, base + d0, base + d1, base + d1 + d0,
		base + d2, base + d2 + d0, base + d2 + d1, base + d2 + d1 + d0,
	}
	return
}

func (m *Model) CellCorners(i, j, k int) (z [8]float64) {
	return GetCellZcorn(m.Dims, i, j, k, m.Zcorn)
}

func GetCellZcorn(dims [3]int, i, j, k int, zcorn []float64) (z [8]float64) {
	for n, ind := range CornerIndices(dims, i, j, k) {
		z[n] = zcorn[ind]
	}
	return
}

func SetCellZcorn(dims [3]int, i, j, k int, z [8]float64, zcorn []float64) {
	for n, ind := range CornerIndices(dims, i, j, k) {
		zcorn[ind] = z[n]
	}
}
