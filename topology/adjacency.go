package topology

import (
	"github.com/james-bowman/sparse"
)

// CellAdjacency returns a symmetric matrix over compact cells whose entry
// (o1,o2) counts the faces, NNC faces included, joining o1 and o2.
func (g *ProcessedGrid) CellAdjacency() (A *sparse.CSR) {
	var (
		n   = g.NumberOfCells()
		dok = sparse.NewDOK(n, n)
	)
	for _, face := range g.Faces {
		o1, o2 := face.Neighbors[0], face.Neighbors[1]
		if o1 == Exterior || o2 == Exterior {
			continue
		}
		dok.Set(o1, o2, dok.At(o1, o2)+1)
		dok.Set(o2, o1, dok.At(o2, o1)+1)
	}
	return dok.ToCSR()
}
