package readfiles

import (
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"

	"github.com/notargets/cpgrid/cornerpoint"
)

/*
CornerPointFile is the on-disk form of a corner-point model plus the cell
properties the pinch pass consumes. Any YAML document, JSON included, is
accepted. Property arrays are optional; when present they hold one value per
cell.
*/
type CornerPointFile struct {
	Dims   [3]int    `json:"dims"`
	Coord  []float64 `json:"coord"`
	Zcorn  []float64 `json:"zcorn"`
	Actnum []int     `json:"actnum,omitempty"`
	Poro   []float64 `json:"poro,omitempty"`
	PermZ  []float64 `json:"permz,omitempty"`
	MultZ  []float64 `json:"multz,omitempty"`
	NTG    []float64 `json:"ntg,omitempty"`
}

func ReadCornerPoint(filename string, verbose bool) (cp *CornerPointFile, err error) {
	var (
		data []byte
	)
	if verbose {
		fmt.Printf("Reading corner-point file named: %s\n", filename)
	}
	if data, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to read file %s: %w", filename, err)
	}
	if cp, err = ParseCornerPoint(data); err != nil {
		return nil, fmt.Errorf("file %s: %w", filename, err)
	}
	if verbose {
		fmt.Printf("Dims = %v, %d cells, %d pillars\n",
			cp.Dims, cp.Dims[0]*cp.Dims[1]*cp.Dims[2], (cp.Dims[0]+1)*(cp.Dims[1]+1))
	}
	return
}

func ParseCornerPoint(data []byte) (cp *CornerPointFile, err error) {
	cp = &CornerPointFile{}
	if err = yaml.Unmarshal(data, cp); err != nil {
		return nil, err
	}
	if _, err = cp.Model(); err != nil {
		return nil, err
	}
	n := cp.Dims[0] * cp.Dims[1] * cp.Dims[2]
	for _, prop := range []struct {
		name string
		v    []float64
	}{{"poro", cp.Poro}, {"permz", cp.PermZ}, {"multz", cp.MultZ}, {"ntg", cp.NTG}} {
		if len(prop.v) != 0 && len(prop.v) != n {
			return nil, fmt.Errorf("%w: %s has %d values, expected 0 or %d",
				cornerpoint.ErrInvalidArgument, prop.name, len(prop.v), n)
		}
	}
	return
}

// Model returns a validated model sharing the file's arrays.
func (cp *CornerPointFile) Model() (m *cornerpoint.Model, err error) {
	return cornerpoint.NewModel(cp.Dims, cp.Coord, cp.Zcorn, cp.Actnum)
}

// MultZFunc returns the vertical transmissibility multiplier lookup, or nil when
// the file carries none.
func (cp *CornerPointFile) MultZFunc() func(cell int) float64 {
	if len(cp.MultZ) == 0 {
		return nil
	}
	return func(cell int) float64 { return cp.MultZ[cell] }
}

func WriteCornerPoint(w io.Writer, cp *CornerPointFile) (err error) {
	var (
		data []byte
	)
	if data, err = yaml.Marshal(cp); err != nil {
		return
	}
	_, err = w.Write(data)
	return
}
