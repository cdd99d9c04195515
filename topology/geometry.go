package topology

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// areaVector sums the fan triangles of a face about its first node. Its
// length is the area of a planar face and its direction the face normal.
func (g *ProcessedGrid) areaVector(f int) (av r3.Vec) {
	var (
		nodes = g.Faces[f].Nodes
	)
	if len(nodes) < 3 {
		return
	}
	p0 := g.Vertices[nodes[0]]
	for n := 1; n+1 < len(nodes); n++ {
		var (
			e1 = r3.Sub(g.Vertices[nodes[n]], p0)
			e2 = r3.Sub(g.Vertices[nodes[n+1]], p0)
		)
		av = r3.Add(av, r3.Cross(e1, e2))
	}
	av = r3.Scale(0.5, av)
	return
}

// FaceArea is zero for NNC faces.
func (g *ProcessedGrid) FaceArea(f int) float64 {
	return r3.Norm(g.areaVector(f))
}

// FaceNormal returns the unit normal pointing from Neighbors[0] to
// Neighbors[1], or the zero vector for faces without area.
func (g *ProcessedGrid) FaceNormal(f int) (n r3.Vec) {
	av := g.areaVector(f)
	if r3.Norm(av) == 0 {
		return
	}
	return r3.Unit(av)
}

// FaceCentroid is the area weighted mean of the fan triangle centroids, or
// the plain node mean when the face has no area.
func (g *ProcessedGrid) FaceCentroid(f int) (c r3.Vec) {
	var (
		nodes = g.Faces[f].Nodes
		wsum  float64
	)
	if len(nodes) == 0 {
		return
	}
	p0 := g.Vertices[nodes[0]]
	for n := 1; n+1 < len(nodes); n++ {
		var (
			p1, p2 = g.Vertices[nodes[n]], g.Vertices[nodes[n+1]]
			w      = 0.5 * r3.Norm(r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0)))
			tc     = r3.Scale(1./3., r3.Add(p0, r3.Add(p1, p2)))
		)
		c = r3.Add(c, r3.Scale(w, tc))
		wsum += w
	}
	if wsum > 0 {
		return r3.Scale(1/wsum, c)
	}
	c = r3.Vec{}
	for _, nd := range nodes {
		c = r3.Add(c, g.Vertices[nd])
	}
	return r3.Scale(1/float64(len(nodes)), c)
}
