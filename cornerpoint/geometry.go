package cornerpoint

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// NewCartesian builds a regular box of nx*ny*nz cells of size dx*dy*dz with
// vertical pillars. Layer k spans depths [k*dz, (k+1)*dz].
func NewCartesian(nx, ny, nz int, dx, dy, dz float64) (m *Model) {
	var (
		dims  = [3]int{nx, ny, nz}
		coord = make([]float64, 0, 6*(nx+1)*(ny+1))
		zcorn = make([]float64, 8*nx*ny*nz)
		zmax  = float64(nz) * dz
	)
	for pj := 0; pj <= ny; pj++ {
		for pi := 0; pi <= nx; pi++ {
			x, y := float64(pi)*dx, float64(pj)*dy
			coord = append(coord, x, y, 0, x, y, zmax)
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var z [8]float64
				for q := 0; q < 4; q++ {
					z[q] = float64(k) * dz
					z[q+4] = float64(k+1) * dz
				}
				SetCellZcorn(dims, i, j, k, z, zcorn)
			}
		}
	}
	m = &Model{Dims: dims, Coord: coord, Zcorn: zcorn}
	return
}

// CellThickness returns the mean vertical extent of the four cell corners.
func (m *Model) CellThickness() (th []float64) {
	var (
		nx, ny, nz = m.Dims[0], m.Dims[1], m.Dims[2]
		dz         = make([]float64, 4)
	)
	th = make([]float64, m.NumCells())
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				z := m.CellCorners(i, j, k)
				for q := 0; q < 4; q++ {
					dz[q] = z[q+4] - z[q]
				}
				th[m.CellIndex(i, j, k)] = floats.Sum(dz) / 4
			}
		}
	}
	return
}

// BulkVolumes approximates each cell's volume as the mean of its top and
// bottom quadrilateral plan areas times its mean thickness.
func (m *Model) BulkVolumes() (vol []float64, err error) {
	var (
		nx, ny, nz = m.Dims[0], m.Dims[1], m.Dims[2]
		th         = m.CellThickness()
	)
	vol = make([]float64, m.NumCells())
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var (
					c      = m.CellIndex(i, j, k)
					z      = m.CellCorners(i, j, k)
					pil    = m.ColumnPillars(i, j)
					top    [4]r3.Vec
					bottom [4]r3.Vec
				)
				for q := 0; q < 4; q++ {
					if top[q], err = m.PillarPoint(pil[q], z[q]); err != nil {
						return nil, err
					}
					if bottom[q], err = m.PillarPoint(pil[q], z[q+4]); err != nil {
						return nil, err
					}
				}
				vol[c] = 0.5 * (planArea(top) + planArea(bottom)) * th[c]
			}
		}
	}
	return
}

// PoreVolumes multiplies bulk volume by porosity and, when given, net-to-gross.
func (m *Model) PoreVolumes(poro, ntg []float64) (pv []float64, err error) {
	if len(poro) != m.NumCells() {
		return nil, fmt.Errorf("%w: porosity has %d values, expected %d",
			ErrInvalidArgument, len(poro), m.NumCells())
	}
	if len(ntg) != 0 && len(ntg) != m.NumCells() {
		return nil, fmt.Errorf("%w: net-to-gross has %d values, expected 0 or %d",
			ErrInvalidArgument, len(ntg), m.NumCells())
	}
	if pv, err = m.BulkVolumes(); err != nil {
		return nil, err
	}
	floats.Mul(pv, poro)
	if len(ntg) != 0 {
		floats.Mul(pv, ntg)
	}
	return
}

// planArea is the horizontal area of a quadrilateral given in column corner
// order, via the cross product of its diagonals.
func planArea(q [4]r3.Vec) float64 {
	var (
		d1 = r3.Sub(q[3], q[0])
		d2 = r3.Sub(q[2], q[1])
	)
	d1.Z, d2.Z = 0, 0
	return 0.5 * math.Abs(r3.Cross(d1, d2).Z)
}
