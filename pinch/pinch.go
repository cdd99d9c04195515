// Package pinch removes cells whose pore volume falls below a minimum,
// collapses their corner depths and links the cells that used to sandwich
// them with non-neighboring connections.
package pinch

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/notargets/cpgrid/cornerpoint"
)

var (
	ErrInvalidArgument = cornerpoint.ErrInvalidArgument
)

type Connection = cornerpoint.Connection

// Logger receives configuration warnings. A nil Logger uses slog.Default().
var Logger *slog.Logger

func logger() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}

// Policy holds the scalar knobs of a pinch pass.
type Policy struct {
	Threshold    float64 // Inactive cells at most this thick are pinched
	MaxGap       float64 // Largest vertical gap bridged by a connection
	Fill         bool    // Extend the cell below a removed cell up to the collapse
	NoGap        bool    // Only bridge removed layers thinner than Threshold
	AllCondition bool    // Require non-zero PermZ and MultZ across the gap
}

// Input is one pinch pass over a box. Zcorn is updated in place; nothing else
// is written.
type Input struct {
	Policy
	Thickness     []float64
	PoreVolume    []float64
	MinPoreVolume []float64
	Actnum        []int
	Zcorn         []float64
	PermZ         []float64
	MultZ         func(cell int) float64 // nil means 1 for every cell
}

type Result struct {
	RemovedCells []int
	NNC          []Connection
}

// Deactivate returns an active map with every removed cell switched off. An
// empty actnum stands for all cells active and is expanded to numCells
// entries. The input slice is not modified.
func (r Result) Deactivate(actnum []int, numCells int) (act []int) {
	act = make([]int, numCells)
	if len(actnum) == 0 {
		for c := range act {
			act[c] = 1
		}
	} else {
		copy(act, actnum)
	}
	for _, c := range r.RemovedCells {
		act[c] = 0
	}
	return
}

type Processor struct {
	Dims [3]int
}

func NewProcessor(nx, ny, nz int) *Processor {
	return &Processor{Dims: [3]int{nx, ny, nz}}
}

func (p *Processor) NumCells() int { return p.Dims[0] * p.Dims[1] * p.Dims[2] }

func (p *Processor) cellIndex(i, j, k int) int {
	return i + p.Dims[0]*(j+p.Dims[1]*k)
}

type cellKind uint8

const (
	kept     cellKind = iota // active and above minimum pore volume
	removed                  // active and below minimum pore volume
	pinched                  // inactive and thin, transparent to connections
	barrier                  // inactive and thick
)

func (p *Processor) validate(in *Input) (err error) {
	var (
		n = p.NumCells()
	)
	if p.Dims[0] <= 0 || p.Dims[1] <= 0 || p.Dims[2] <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, have %v", ErrInvalidArgument, p.Dims)
	}
	check := func(name string, have, want int) {
		if err == nil && have != want {
			err = fmt.Errorf("%w: %s has %d values, expected %d", ErrInvalidArgument, name, have, want)
		}
	}
	check("thickness", len(in.Thickness), n)
	check("pore volume", len(in.PoreVolume), n)
	check("minimum pore volume", len(in.MinPoreVolume), n)
	check("zcorn", len(in.Zcorn), 8*n)
	if len(in.Actnum) != 0 {
		check("actnum", len(in.Actnum), n)
	}
	if len(in.PermZ) != 0 {
		check("permz", len(in.PermZ), n)
	}
	return
}

// Process runs the pinch pass column by column, top to bottom.
func (p *Processor) Process(in Input) (res Result, err error) {
	if err = p.validate(&in); err != nil {
		return
	}
	if in.MultZ == nil {
		in.MultZ = func(int) float64 { return 1 }
	}
	if in.AllCondition && len(in.PermZ) == 0 {
		logger().Warn("all-condition rule without vertical permeability, connections across removed cells are vetoed",
			"dims", p.Dims)
	}
	var (
		nx, ny, nz = p.Dims[0], p.Dims[1], p.Dims[2]
		kinds      = make([]cellKind, nz)
		orig       = make([][8]float64, nz)
	)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			for k := 0; k < nz; k++ {
				kinds[k] = p.classify(&in, p.cellIndex(i, j, k))
				orig[k] = cornerpoint.GetCellZcorn(p.Dims, i, j, k, in.Zcorn)
			}
			res.NNC = p.connectColumn(&in, i, j, kinds, orig, res.NNC)
			res.RemovedCells = p.collapseColumn(&in, i, j, kinds, res.RemovedCells)
		}
	}
	sort.Ints(res.RemovedCells)
	return
}

func (p *Processor) classify(in *Input, c int) cellKind {
	if len(in.Actnum) == 0 || in.Actnum[c] != 0 {
		if in.PoreVolume[c] < in.MinPoreVolume[c] {
			return removed
		}
		return kept
	}
	if in.Thickness[c] <= in.Threshold {
		return pinched
	}
	return barrier
}

// connectColumn walks the column keeping the last kept cell above and the
// run of removed or pinched cells since then.
func (p *Processor) connectColumn(in *Input, i, j int, kinds []cellKind,
	orig [][8]float64, nnc []Connection) []Connection {
	var (
		above = -1
		run   []int
	)
	for k, kind := range kinds {
		switch kind {
		case barrier:
			above, run = -1, run[:0]
			continue
		case removed, pinched:
			if above >= 0 {
				run = append(run, k)
			}
			continue
		}
		if above >= 0 && p.accept(in, i, j, above, k, run, orig) {
			nnc = append(nnc, cornerpoint.NewConnection(p.cellIndex(i, j, above), p.cellIndex(i, j, k)))
		}
		above, run = k, run[:0]
	}
	return nnc
}

func touching(upper, lower [8]float64) bool {
	for q := 0; q < 4; q++ {
		if upper[q+4] != lower[q] {
			return false
		}
	}
	return true
}

func (p *Processor) accept(in *Input, i, j, above, below int, run []int, orig [][8]float64) bool {
	var (
		a, b   = orig[above], orig[below]
		maxGap float64
	)
	if len(run) == 0 && touching(a, b) {
		return false
	}
	for q := 0; q < 4; q++ {
		gap := b[q] - a[q+4]
		if len(run) == 0 && gap < 0 {
			return false
		}
		if q == 0 || gap > maxGap {
			maxGap = gap
		}
	}
	if maxGap > in.MaxGap {
		return false
	}
	if in.NoGap {
		prev := above
		for _, k := range run {
			if in.Thickness[p.cellIndex(i, j, k)] > in.Threshold || !touching(orig[prev], orig[k]) {
				return false
			}
			prev = k
		}
		if !touching(orig[prev], b) {
			return false
		}
	}
	if in.AllCondition {
		if in.MultZ(p.cellIndex(i, j, above)) == 0 {
			return false
		}
		for _, k := range run {
			c := p.cellIndex(i, j, k)
			if len(in.PermZ) == 0 || in.PermZ[c] == 0 || in.MultZ(c) == 0 {
				return false
			}
		}
	}
	return true
}

// collapseColumn moves the bottom corners of removed and pinched cells onto
// their tops. Pinched cells directly below take the same collapsed depths.
func (p *Processor) collapseColumn(in *Input, i, j int, kinds []cellKind, removedCells []int) []int {
	var (
		nz = p.Dims[2]
	)
	for k := 0; k < nz; {
		kind := kinds[k]
		if kind != removed && kind != pinched {
			k++
			continue
		}
		cz := cornerpoint.GetCellZcorn(p.Dims, i, j, k, in.Zcorn)
		for q := 0; q < 4; q++ {
			cz[q+4] = cz[q]
		}
		cornerpoint.SetCellZcorn(p.Dims, i, j, k, cz, in.Zcorn)
		if kind == removed {
			removedCells = append(removedCells, p.cellIndex(i, j, k))
		}
		kk := k + 1
		for ; kk < nz && kinds[kk] == pinched; kk++ {
			cornerpoint.SetCellZcorn(p.Dims, i, j, kk, cz, in.Zcorn)
		}
		if kk < nz && in.Fill && kind == removed {
			below := cornerpoint.GetCellZcorn(p.Dims, i, j, kk, in.Zcorn)
			copy(below[:4], cz[:4])
			cornerpoint.SetCellZcorn(p.Dims, i, j, kk, below, in.Zcorn)
		}
		k = kk
	}
	return removedCells
}
