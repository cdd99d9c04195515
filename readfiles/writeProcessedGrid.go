package readfiles

import (
	"io"

	"github.com/ghodss/yaml"

	"github.com/notargets/cpgrid/topology"
)

type faceRecord struct {
	Tag       string `json:"tag"`
	Nodes     []int  `json:"nodes,omitempty"`
	Neighbors [2]int `json:"neighbors"`
}

type processedGridFile struct {
	Dims            [3]int         `json:"dims"`
	NodesOnPillars  int            `json:"nodesOnPillars"`
	FaceCounts      map[string]int `json:"faceCounts"`
	ActiveCellIndex []int          `json:"activeCellIndex"`
	Vertices        [][3]float64   `json:"vertices,omitempty"`
	Faces           []faceRecord   `json:"faces,omitempty"`
}

// WriteProcessedGrid writes a YAML document describing g. With summary set
// only the dimensions, counts and active cell index are written.
func WriteProcessedGrid(w io.Writer, g *topology.ProcessedGrid, summary bool) (err error) {
	var (
		pg = processedGridFile{
			Dims:            g.Dims,
			NodesOnPillars:  g.NodesOnPillars,
			FaceCounts:      make(map[string]int),
			ActiveCellIndex: g.ActiveCellIndex,
		}
		data []byte
	)
	for tag, n := range g.TagCounts() {
		pg.FaceCounts[tag.String()] = n
	}
	if !summary {
		pg.Vertices = make([][3]float64, len(g.Vertices))
		for n, v := range g.Vertices {
			pg.Vertices[n] = [3]float64{v.X, v.Y, v.Z}
		}
		pg.Faces = make([]faceRecord, len(g.Faces))
		for f, face := range g.Faces {
			pg.Faces[f] = faceRecord{Tag: face.Tag.String(), Nodes: face.Nodes, Neighbors: face.Neighbors}
		}
	}
	if data, err = yaml.Marshal(pg); err != nil {
		return
	}
	_, err = w.Write(data)
	return
}
