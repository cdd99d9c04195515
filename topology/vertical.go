package topology

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/cpgrid/types"
)

const (
	aboveAll = math.MinInt // Node id of the padding above every column
	belowAll = math.MaxInt // Node id of the padding below every column
)

// line runs from a node on the first pillar of a face to a node on the second.
type line [2]int

func (l line) isPadding() bool { return l[0] == aboveAll || l[0] == belowAll }

func (l line) key() types.LineKey { return types.NewLineKey(l[0], l[1]) }

// interval is the part of a column side between two lines. Voids and the
// padding above and below the column carry cell == Exterior.
type interval struct {
	ord, cell int
	top, bot  line
}

var exteriorStack = []interval{{
	ord: Exterior, cell: Exterior,
	top: line{aboveAll, aboveAll}, bot: line{belowAll, belowAll},
}}

func (b *builder) depth(id int) float64 {
	switch id {
	case aboveAll:
		return math.Inf(-1)
	case belowAll:
		return math.Inf(1)
	}
	return b.vertices[id].Z
}

func (b *builder) zAt(l line, t float64) float64 {
	z1, z2 := b.depth(l[0]), b.depth(l[1])
	if z1 == z2 {
		return z1
	}
	return z1 + t*(z2-z1)
}

// columnStack lists the intervals of column (i,j) on the side given by the
// corner pair q, top to bottom. Intervals without extent on both pillars are
// left out. Columns outside the box are a single exterior interval.
func (b *builder) columnStack(i, j int, q [2]int) (stack []interval) {
	var (
		nx, ny, nz = b.m.Dims[0], b.m.Dims[1], b.m.Dims[2]
		prev       = line{aboveAll, aboveAll}
	)
	if i < 0 || i >= nx || j < 0 || j >= ny {
		return exteriorStack
	}
	for k := 0; k < nz; k++ {
		var (
			n   = b.cornerNodes(i, j, k)
			c   = b.m.CellIndex(i, j, k)
			top = line{n[q[0]], n[q[1]]}
			bot = line{n[q[0]+4], n[q[1]+4]}
		)
		if top != prev {
			stack = append(stack, interval{ord: Exterior, cell: Exterior, top: prev, bot: top})
		}
		if bot != top {
			stack = append(stack, interval{ord: b.ordinal[c], cell: c, top: top, bot: bot})
		}
		prev = bot
	}
	stack = append(stack, interval{ord: Exterior, cell: Exterior, top: prev, bot: line{belowAll, belowAll}})
	return
}

func (b *builder) verticalFaces() (err error) {
	var (
		nx, ny = b.m.Dims[0], b.m.Dims[1]
	)
	for j := 0; j < ny; j++ {
		for i := 0; i <= nx; i++ {
			if err = b.sweep(
				b.columnStack(i-1, j, [2]int{1, 3}),
				b.columnStack(i, j, [2]int{0, 2}), IFace); err != nil {
				return
			}
		}
	}
	for j := 0; j <= ny; j++ {
		for i := 0; i < nx; i++ {
			if err = b.sweep(
				b.columnStack(i, j-1, [2]int{3, 2}),
				b.columnStack(i, j, [2]int{1, 0}), JFace); err != nil {
				return
			}
		}
	}
	return
}

// sweep walks the two stacks of a column interface together and emits a
// face for every overlapping pair that has at least one active cell.
func (b *builder) sweep(A, B []interval, tag FaceTag) (err error) {
	var (
		s int
	)
	for _, a := range A {
		for s < len(B) && B[s].bot[0] <= a.top[0] && B[s].bot[1] <= a.top[1] {
			s++
		}
		for _, bb := range B[s:] {
			if bb.top[0] >= a.bot[0] && bb.top[1] >= a.bot[1] {
				break
			}
			if a.ord == Exterior && bb.ord == Exterior {
				continue
			}
			var nodes []int
			if nodes, err = b.intersect(a, bb); err != nil {
				return
			}
			if len(nodes) < 3 {
				continue
			}
			if a.ord != Exterior && bb.ord != Exterior && b.isAquifer(a.cell) != b.isAquifer(bb.cell) {
				if err = b.addFace(nodes, a.ord, Exterior, tag); err != nil {
					return
				}
				err = b.addFace(append([]int(nil), nodes...), Exterior, bb.ord, tag)
			} else {
				err = b.addFace(nodes, a.ord, bb.ord, tag)
			}
			if err != nil {
				return
			}
		}
	}
	return
}

type crossKind uint8

const (
	endPoint  crossKind = iota
	topBreak            // The two tops cross
	botBreak            // The two bottoms cross
	pinchOut            // A top crosses the other bottom
)

type candidate struct {
	t      float64
	kind   crossKind
	l1, l2 line
	d      float64
}

// crossing returns where l1 and l2 cross strictly between the two pillars.
func (b *builder) crossing(l1, l2 line) (t float64, ok bool) {
	if l1.isPadding() || l2.isPadding() {
		return
	}
	s0, s1 := compareIDs(l1[0], l2[0]), compareIDs(l1[1], l2[1])
	if s0*s1 >= 0 {
		return
	}
	d0 := b.depth(l1[0]) - b.depth(l2[0])
	d1 := b.depth(l1[1]) - b.depth(l2[1])
	return d0 / (d0 - d1), true
}

func compareIDs(n1, n2 int) int {
	switch {
	case n1 < n2:
		return -1
	case n1 > n2:
		return 1
	}
	return 0
}

/*
intersect returns the node loop of the overlap of intervals a and bb, or
nil when they only touch. The overlap at parameter t along the face is
[max(aTop,bTop), min(aBot,bBot)]; its height is concave in t, so the overlap
is a single polygon whose corners lie at the pillars or at line crossings.
The loop runs along the top from the first to the second pillar and back
along the bottom.
*/
func (b *builder) intersect(a, bb interval) (nodes []int, err error) {
	var (
		cands = make([]candidate, 0, 6)
		scale = 1.
	)
	for _, l := range []line{a.top, a.bot, bb.top, bb.bot} {
		if !l.isPadding() {
			scale = math.Max(scale, math.Max(math.Abs(b.depth(l[0])), math.Abs(b.depth(l[1]))))
		}
	}
	eps := 1e-12 * scale
	for e, t := range []float64{0, 1} {
		top, bot := max(a.top[e], bb.top[e]), min(a.bot[e], bb.bot[e])
		c := candidate{t: t, kind: endPoint, d: float64(compareIDs(bot, top))}
		cands = append(cands, c)
	}
	for _, pair := range []struct {
		kind   crossKind
		l1, l2 line
	}{
		{topBreak, a.top, bb.top},
		{botBreak, a.bot, bb.bot},
		{pinchOut, a.top, bb.bot},
		{pinchOut, bb.top, a.bot},
	} {
		if t, ok := b.crossing(pair.l1, pair.l2); ok {
			d := min(b.zAt(a.bot, t), b.zAt(bb.bot, t)) - max(b.zAt(a.top, t), b.zAt(bb.top, t))
			cands = append(cands, candidate{t: t, kind: pair.kind, l1: pair.l1, l2: pair.l2, d: d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].t < cands[j].t })
	var (
		first, last = -1, -1
		open        bool
	)
	for n, c := range cands {
		limit := -eps
		if c.kind == endPoint {
			limit = 0
		}
		if c.d >= limit {
			if first < 0 {
				first = n
			}
			last = n
		}
		if (c.kind == endPoint && c.d > 0) || (c.kind != endPoint && c.d > eps) {
			open = true
		}
	}
	if !open {
		return nil, nil
	}
	var (
		c0, c1 = cands[first], cands[last]
		id     int
	)
	push := func(id int) {
		if len(nodes) == 0 || nodes[len(nodes)-1] != id {
			nodes = append(nodes, id)
		}
	}
	breakNode := func(kind crossKind) (id int, ok bool, err error) {
		for _, c := range cands {
			if c.kind == kind && c.t > c0.t+1e-12 && c.t < c1.t-1e-12 {
				id, err = b.crossingNode(c)
				return id, true, err
			}
		}
		return
	}
	// Top from the first pillar towards the second
	if id, err = b.boundaryNode(c0, a, bb, true); err != nil {
		return
	}
	push(id)
	if id, ok, err := breakNode(topBreak); err != nil {
		return nil, err
	} else if ok {
		push(id)
	}
	if id, err = b.boundaryNode(c1, a, bb, true); err != nil {
		return
	}
	push(id)
	// Bottom back towards the first pillar
	if id, err = b.boundaryNode(c1, a, bb, false); err != nil {
		return
	}
	push(id)
	if id, ok, err := breakNode(botBreak); err != nil {
		return nil, err
	} else if ok {
		push(id)
	}
	if id, err = b.boundaryNode(c0, a, bb, false); err != nil {
		return
	}
	push(id)
	if len(nodes) > 1 && nodes[0] == nodes[len(nodes)-1] {
		nodes = nodes[:len(nodes)-1]
	}
	return
}

// boundaryNode returns the node at the top or bottom of the overlap at a
// candidate. At the pillars this is an existing pillar node; inside the
// face the overlap closes to a single crossing node.
func (b *builder) boundaryNode(c candidate, a, bb interval, top bool) (id int, err error) {
	if c.kind != endPoint {
		return b.crossingNode(c)
	}
	e := int(c.t)
	if top {
		return max(a.top[e], bb.top[e]), nil
	}
	return min(a.bot[e], bb.bot[e]), nil
}

// crossingNode returns the node where the two lines of c cross, creating it
// on first use. The node is shared by every face that sees the same pair.
func (b *builder) crossingNode(c candidate) (id int, err error) {
	key := types.NewCrossingKey(c.l1.key(), c.l2.key())
	if id, ok := b.crossings[key]; ok {
		return id, nil
	}
	var (
		p1, p2 = b.vertices[c.l1[0]], b.vertices[c.l1[1]]
		pt     = r3.Add(p1, r3.Scale(c.t, r3.Sub(p2, p1)))
	)
	if id, err = b.addNode(pt); err != nil {
		return
	}
	b.crossings[key] = id
	if log := logger(); log.Enabled(context.Background(), slog.LevelDebug) {
		a1, a2 := key[0].GetNodes()
		b1, b2 := key[1].GetNodes()
		log.Debug("fault crossing", "node", id, "line1", [2]int{a1, a2}, "line2", [2]int{b1, b2})
	}
	return
}
