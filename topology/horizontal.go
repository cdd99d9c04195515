package topology

// kFaceNodes orders four corner nodes so the normal points down the column.
func kFaceNodes(n [8]int, bottom bool) []int {
	var (
		o int
	)
	if bottom {
		o = 4
	}
	return []int{n[o], n[o+1], n[o+3], n[o+2]}
}

func touches(upper, lower [8]int) bool {
	for q := 0; q < 4; q++ {
		if upper[q+4] != lower[q] {
			return false
		}
	}
	return true
}

/*
horizontalFaces walks every column top to bottom. Consecutive active cells
that share their four interface nodes get an interior face. Any other
break gets a bottom face on the cell above and a top face on the cell below.
With PinchActive, collapsed cells are skipped over, and two active cells
separated only by collapsed cells that still do not touch are linked by an
NNC face.
*/
func (b *builder) horizontalFaces() (err error) {
	var (
		nx, ny, nz = b.m.Dims[0], b.m.Dims[1], b.m.Dims[2]
	)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			var (
				upper    = Exterior
				upperN   [8]int
				bypassed bool
			)
			for k := 0; k < nz; k++ {
				var (
					n = b.cornerNodes(i, j, k)
					o = b.ordinal[b.m.CellIndex(i, j, k)]
				)
				if b.opts.PinchActive && isCollapsed(n) {
					bypassed = bypassed || upper != Exterior
					continue
				}
				if o == Exterior {
					if upper != Exterior {
						if err = b.addFace(kFaceNodes(upperN, true), upper, Exterior, KFace); err != nil {
							return
						}
					}
					upper, bypassed = Exterior, false
					continue
				}
				switch {
				case upper == Exterior:
					err = b.addFace(kFaceNodes(n, false), Exterior, o, KFace)
				case touches(upperN, n):
					err = b.addFace(kFaceNodes(n, false), upper, o, KFace)
				default:
					if err = b.addFace(kFaceNodes(upperN, true), upper, Exterior, KFace); err != nil {
						return
					}
					if err = b.addFace(kFaceNodes(n, false), Exterior, o, KFace); err != nil {
						return
					}
					if bypassed {
						err = b.addNNC(upper, o)
					}
				}
				if err != nil {
					return
				}
				upper, upperN, bypassed = o, n, false
			}
			if upper != Exterior {
				if err = b.addFace(kFaceNodes(upperN, true), upper, Exterior, KFace); err != nil {
					return
				}
			}
		}
	}
	return
}
