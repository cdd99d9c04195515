// Package topology turns a corner-point model into an explicit polyhedral
// grid: unique vertices, faces with ordered node lists, the pair of cells on
// either side of each face, and the map from compact active cells back to
// the original box.
package topology

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/cpgrid/cornerpoint"
)

var (
	ErrInvalidArgument    = cornerpoint.ErrInvalidArgument
	ErrDegenerateGeometry = cornerpoint.ErrDegenerateGeometry
	ErrAllocationFailure  = cornerpoint.ErrAllocationFailure
)

// Exterior marks the missing side of a boundary face.
const Exterior = -1

// Logger receives warnings about dropped input. A nil Logger uses
// slog.Default().
var Logger *slog.Logger

func logger() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}

type FaceTag uint8

const (
	IFace   FaceTag = iota // Between columns i-1 and i
	JFace                  // Between columns j-1 and j
	KFace                  // Between layers k-1 and k
	NNCFace                // Non-neighboring connection, no geometry
)

func (ft FaceTag) String() string {
	switch ft {
	case IFace:
		return "I"
	case JFace:
		return "J"
	case KFace:
		return "K"
	case NNCFace:
		return "NNC"
	}
	return fmt.Sprintf("FaceTag(%d)", uint8(ft))
}

/*
Face is one polygon of the grid. Nodes index ProcessedGrid.Vertices and are
ordered so that the right hand normal points from Neighbors[0] towards
Neighbors[1]. Neighbors hold compact cell ordinals or Exterior.
*/
type Face struct {
	Nodes     []int
	Neighbors [2]int
	Tag       FaceTag
}

func (f Face) IsBoundary() bool {
	return f.Neighbors[0] == Exterior || f.Neighbors[1] == Exterior
}

/*
ProcessedGrid is the result of Build. Vertices[:NodesOnPillars] lie on the
pillars, ordered pillar by pillar and top to bottom within a pillar. The
remaining vertices are fault crossings found inside vertical faces.
ActiveCellIndex[o] is the linear box index of compact cell o.
*/
type ProcessedGrid struct {
	Dims            [3]int
	Vertices        []r3.Vec
	NodesOnPillars  int
	Faces           []Face
	ActiveCellIndex []int
}

func (g *ProcessedGrid) NumberOfCells() int { return len(g.ActiveCellIndex) }

func (g *ProcessedGrid) NumberOfNodes() int { return len(g.Vertices) }

func (g *ProcessedGrid) NumberOfFaces() int { return len(g.Faces) }

// Release drops all storage held by the grid. Calling it twice is harmless.
func (g *ProcessedGrid) Release() {
	if g == nil {
		return
	}
	g.Vertices = nil
	g.Faces = nil
	g.ActiveCellIndex = nil
	g.NodesOnPillars = 0
}

// CellFaces lists, for every compact cell, the faces that have it as a
// neighbor, in face order.
func (g *ProcessedGrid) CellFaces() (cf [][]int) {
	cf = make([][]int, g.NumberOfCells())
	for f, face := range g.Faces {
		for _, o := range face.Neighbors {
			if o != Exterior {
				cf[o] = append(cf[o], f)
			}
		}
	}
	return
}

// TagCounts returns the number of faces carrying each tag.
func (g *ProcessedGrid) TagCounts() (counts map[FaceTag]int) {
	counts = make(map[FaceTag]int)
	for _, face := range g.Faces {
		counts[face.Tag]++
	}
	return
}
