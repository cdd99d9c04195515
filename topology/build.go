package topology

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/cpgrid/cornerpoint"
	"github.com/notargets/cpgrid/types"
)

type Options struct {
	Tolerance   float64                  // Depths closer than this along a pillar share a node
	IsAquifer   func(cell int) bool      // Linear cell index, nil means no aquifer cells
	PinchActive bool                     // Zero thickness cells are dropped and transparent
	NNC         []cornerpoint.Connection // Extra connections by linear cell index
	MaxFaces    int                      // Zero means unbounded
	MaxNodes    int                      // Zero means unbounded
	Workers     int                      // Zero means GOMAXPROCS
}

type builder struct {
	m              *cornerpoint.Model
	opts           Options
	nodeOf         []int // Global node id of every Zcorn position
	vertices       []r3.Vec
	nodesOnPillars int
	ordinal        []int // Compact ordinal of every box cell, or Exterior
	active         []int
	faces          []Face
	crossings      map[types.CrossingKey]int
	nncPairs       map[[2]int]bool
}

/*
Build computes the processed grid of m. Cells marked inactive in m.Actnum
are left out, and with PinchActive so are active cells whose four pillars
carry a single node each. On error no grid is returned.
*/
func Build(m *cornerpoint.Model, opts Options) (g *ProcessedGrid, err error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidArgument)
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	if !(opts.Tolerance > 0) {
		return nil, fmt.Errorf("%w: tolerance must be positive, have %g",
			ErrInvalidArgument, opts.Tolerance)
	}
	b := &builder{
		m:         m,
		opts:      opts,
		crossings: make(map[types.CrossingKey]int),
		nncPairs:  make(map[[2]int]bool),
	}
	if err = b.dedupePillars(); err != nil {
		return nil, err
	}
	if err = b.checkMonotone(); err != nil {
		return nil, err
	}
	b.findActive()
	if err = b.verticalFaces(); err != nil {
		return nil, err
	}
	if err = b.horizontalFaces(); err != nil {
		return nil, err
	}
	if err = b.externalConnections(); err != nil {
		return nil, err
	}
	g = &ProcessedGrid{
		Dims:            m.Dims,
		Vertices:        b.vertices,
		NodesOnPillars:  b.nodesOnPillars,
		Faces:           b.faces,
		ActiveCellIndex: b.active,
	}
	return
}

// cornerNodes returns the global node ids of the eight corners of a cell,
// in the same order as cornerpoint.CornerIndices.
func (b *builder) cornerNodes(i, j, k int) (n [8]int) {
	for q, ind := range cornerpoint.CornerIndices(b.m.Dims, i, j, k) {
		n[q] = b.nodeOf[ind]
	}
	return
}

func isCollapsed(n [8]int) bool {
	for q := 0; q < 4; q++ {
		if n[q] != n[q+4] {
			return false
		}
	}
	return true
}

func (b *builder) findActive() {
	var (
		nx, ny, nz = b.m.Dims[0], b.m.Dims[1], b.m.Dims[2]
	)
	b.ordinal = make([]int, b.m.NumCells())
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := b.m.CellIndex(i, j, k)
				b.ordinal[c] = Exterior
				if !b.m.IsActive(c) {
					continue
				}
				if b.opts.PinchActive && isCollapsed(b.cornerNodes(i, j, k)) {
					continue
				}
				b.ordinal[c] = len(b.active)
				b.active = append(b.active, c)
			}
		}
	}
}

func (b *builder) isAquifer(c int) bool {
	return b.opts.IsAquifer != nil && b.opts.IsAquifer(c)
}

func (b *builder) addFace(nodes []int, o1, o2 int, tag FaceTag) (err error) {
	if b.opts.MaxFaces > 0 && len(b.faces) >= b.opts.MaxFaces {
		return fmt.Errorf("%w: more than %d faces", ErrAllocationFailure, b.opts.MaxFaces)
	}
	b.faces = append(b.faces, Face{Nodes: nodes, Neighbors: [2]int{o1, o2}, Tag: tag})
	return
}

func (b *builder) addNNC(o1, o2 int) (err error) {
	if o2 < o1 {
		o1, o2 = o2, o1
	}
	key := [2]int{o1, o2}
	if b.nncPairs[key] {
		return
	}
	b.nncPairs[key] = true
	return b.addFace(nil, o1, o2, NNCFace)
}

func (b *builder) addNode(pt r3.Vec) (id int, err error) {
	if b.opts.MaxNodes > 0 && len(b.vertices) >= b.opts.MaxNodes {
		return 0, fmt.Errorf("%w: more than %d nodes", ErrAllocationFailure, b.opts.MaxNodes)
	}
	id = len(b.vertices)
	b.vertices = append(b.vertices, pt)
	return
}

// externalConnections appends the caller's NNCs between surviving cells.
func (b *builder) externalConnections() (err error) {
	var (
		n = b.m.NumCells()
	)
	for _, conn := range b.opts.NNC {
		if conn.Cell1 < 0 || conn.Cell1 >= n || conn.Cell2 < 0 || conn.Cell2 >= n {
			return fmt.Errorf("%w: connection %d-%d outside of %d cells",
				ErrInvalidArgument, conn.Cell1, conn.Cell2, n)
		}
		o1, o2 := b.ordinal[conn.Cell1], b.ordinal[conn.Cell2]
		if o1 == Exterior || o2 == Exterior {
			logger().Warn("dropping connection to an inactive cell",
				"cell1", conn.Cell1, "cell2", conn.Cell2)
			continue
		}
		if o1 == o2 {
			continue
		}
		if err = b.addNNC(o1, o2); err != nil {
			return
		}
	}
	return
}
