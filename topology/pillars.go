package topology

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/cpgrid/utils"
)

// pillarNodes holds the merged depths found on one pillar and their points.
type pillarNodes struct {
	depths []float64
	points []r3.Vec
}

// zcornPositions returns every Zcorn position whose corner lies on pillar
// (pi,pj). Up to four columns share a pillar, each with 2nz depths on it.
func (b *builder) zcornPositions(pi, pj int, pos []int) []int {
	var (
		nx, ny, nz = b.m.Dims[0], b.m.Dims[1], b.m.Dims[2]
	)
	pos = pos[:0]
	for zz := 0; zz < 2*nz; zz++ {
		for yy := 2*pj - 1; yy <= 2*pj; yy++ {
			if yy < 0 || yy >= 2*ny {
				continue
			}
			for xx := 2*pi - 1; xx <= 2*pi; xx++ {
				if xx < 0 || xx >= 2*nx {
					continue
				}
				pos = append(pos, xx+2*nx*(yy+2*ny*zz))
			}
		}
	}
	return pos
}

// pillarOf inverts zcornPositions for a single Zcorn position.
func (b *builder) pillarOf(pos int) int {
	var (
		nx, ny = b.m.Dims[0], b.m.Dims[1]
		xx     = pos % (2 * nx)
		yy     = (pos / (2 * nx)) % (2 * ny)
	)
	return b.m.PillarIndex((xx+1)/2, (yy+1)/2)
}

// dedupePillars merges the corner depths of every pillar, assigns global
// node ids to all Zcorn positions and lays out the pillar vertices.
func (b *builder) dedupePillars() (err error) {
	var (
		np      = b.m.NumPillars()
		perPil  = make([]pillarNodes, np)
		offsets = make([]int, np+1)
	)
	b.nodeOf = make([]int, len(b.m.Zcorn))
	err = utils.ParallelFor(np, b.opts.Workers, func(pMin, pMax int) error {
		var pos []int
		for p := pMin; p < pMax; p++ {
			pi, pj := p%(b.m.Dims[0]+1), p/(b.m.Dims[0]+1)
			pos = b.zcornPositions(pi, pj, pos)
			if err := b.dedupePillar(p, pos, &perPil[p]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	for p := 0; p < np; p++ {
		offsets[p+1] = offsets[p] + len(perPil[p].depths)
	}
	b.nodesOnPillars = offsets[np]
	if b.opts.MaxNodes > 0 && b.nodesOnPillars > b.opts.MaxNodes {
		return fmt.Errorf("%w: %d pillar nodes exceed the limit of %d",
			ErrAllocationFailure, b.nodesOnPillars, b.opts.MaxNodes)
	}
	b.vertices = make([]r3.Vec, 0, b.nodesOnPillars)
	for p := 0; p < np; p++ {
		b.vertices = append(b.vertices, perPil[p].points...)
	}
	for pos := range b.nodeOf {
		b.nodeOf[pos] += offsets[b.pillarOf(pos)]
	}
	return
}

// dedupePillar sorts the depths found at pos, keeps a value only when it is
// more than Tolerance below the last kept one, and records the rank of the
// kept value covering each position in nodeOf.
func (b *builder) dedupePillar(p int, pos []int, out *pillarNodes) (err error) {
	var (
		top, bottom = b.m.PillarEnds(p)
		z           = make([]float64, len(pos))
	)
	if top.Z == bottom.Z {
		return fmt.Errorf("%w: pillar %d has equal end depths %g",
			ErrDegenerateGeometry, p, top.Z)
	}
	for n, ind := range pos {
		z[n] = b.m.Zcorn[ind]
	}
	sort.Float64s(z)
	for _, v := range z {
		if len(out.depths) == 0 || v-out.depths[len(out.depths)-1] > b.opts.Tolerance {
			out.depths = append(out.depths, v)
		}
	}
	out.points = make([]r3.Vec, len(out.depths))
	for n, v := range out.depths {
		if out.points[n], err = b.m.PillarPoint(p, v); err != nil {
			return
		}
	}
	for _, ind := range pos {
		v := b.m.Zcorn[ind]
		b.nodeOf[ind] = sort.Search(len(out.depths), func(i int) bool { return out.depths[i] > v }) - 1
	}
	return
}

// checkMonotone verifies that depths never decrease down any column corner,
// once merged within the tolerance.
func (b *builder) checkMonotone() (err error) {
	var (
		nx, ny, nz = b.m.Dims[0], b.m.Dims[1], b.m.Dims[2]
	)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			for q := 0; q < 4; q++ {
				prev := -1
				for k := 0; k < nz; k++ {
					c := b.cornerNodes(i, j, k)
					if c[q] < prev || c[q+4] < c[q] {
						return fmt.Errorf("%w: depths decrease at corner %d of cell (%d,%d,%d)",
							ErrDegenerateGeometry, q, i, j, k)
					}
					prev = c[q+4]
				}
			}
		}
	}
	return
}
