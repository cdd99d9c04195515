package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/cpgrid/pinch"
)

// Pinch parameters obtained from the YAML input file
type PinchParameters struct {
	Threshold     float64 `yaml:"Threshold"`
	MaxGap        float64 `yaml:"MaxGap"`
	MinPoreVolume float64 `yaml:"MinPoreVolume"`
	Fill          bool    `yaml:"Fill"`
	NoGap         bool    `yaml:"NoGap"`
	AllCondition  bool    `yaml:"AllCondition"`
	Porosity      float64 `yaml:"Porosity"` // Used when the model file carries no porosity
}

// Parameters obtained from the YAML input file
type RunParameters struct {
	Title       string          `yaml:"Title"`
	Tolerance   float64         `yaml:"Tolerance"`
	PinchActive bool            `yaml:"PinchActive"`
	MaxFaces    int             `yaml:"MaxFaces"`
	MaxNodes    int             `yaml:"MaxNodes"`
	Pinch       PinchParameters `yaml:"Pinch"`
	Aquifers    []int           `yaml:"Aquifers"` // Linear indices of aquifer cells
}

const ExampleFile = `
########################################
Title: "Test Case"
Tolerance: 1.e-6
PinchActive: true
Pinch:
  Threshold: 0.001
  MaxGap: 1.e20
  MinPoreVolume: 0.5
  Fill: false
  NoGap: false
  AllCondition: false
  Porosity: 0.2
########################################
`

func NewRunParameters() (rp *RunParameters) {
	rp = &RunParameters{
		Tolerance: 1.e-6,
		Pinch: PinchParameters{
			MaxGap: 1.e20,
		},
	}
	return
}

func (rp *RunParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

func (rp *RunParameters) Validate() (err error) {
	switch {
	case !(rp.Tolerance > 0):
		err = fmt.Errorf("Tolerance must be positive, have %g", rp.Tolerance)
	case rp.Pinch.Threshold < 0:
		err = fmt.Errorf("Pinch.Threshold must not be negative, have %g", rp.Pinch.Threshold)
	case rp.Pinch.MaxGap < 0:
		err = fmt.Errorf("Pinch.MaxGap must not be negative, have %g", rp.Pinch.MaxGap)
	case rp.Pinch.MinPoreVolume < 0:
		err = fmt.Errorf("Pinch.MinPoreVolume must not be negative, have %g", rp.Pinch.MinPoreVolume)
	case rp.Pinch.Porosity < 0 || rp.Pinch.Porosity > 1:
		err = fmt.Errorf("Pinch.Porosity must lie in [0,1], have %g", rp.Pinch.Porosity)
	case rp.MaxFaces < 0 || rp.MaxNodes < 0:
		err = fmt.Errorf("MaxFaces and MaxNodes must not be negative")
	}
	return
}

func (rp *RunParameters) Policy() pinch.Policy {
	return pinch.Policy{
		Threshold:    rp.Pinch.Threshold,
		MaxGap:       rp.Pinch.MaxGap,
		Fill:         rp.Pinch.Fill,
		NoGap:        rp.Pinch.NoGap,
		AllCondition: rp.Pinch.AllCondition,
	}
}

// IsAquifer returns a cell predicate for the listed aquifer cells, or nil.
func (rp *RunParameters) IsAquifer() func(cell int) bool {
	if len(rp.Aquifers) == 0 {
		return nil
	}
	set := make(map[int]bool, len(rp.Aquifers))
	for _, c := range rp.Aquifers {
		set[c] = true
	}
	return func(cell int) bool { return set[cell] }
}

func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("%8.5g\t\t= Tolerance\n", rp.Tolerance)
	fmt.Printf("[%v]\t\t\t= PinchActive\n", rp.PinchActive)
	fmt.Printf("%8.5g\t\t= Pinch Threshold\n", rp.Pinch.Threshold)
	fmt.Printf("%8.5g\t\t= Pinch MaxGap\n", rp.Pinch.MaxGap)
	fmt.Printf("%8.5g\t\t= Pinch MinPoreVolume\n", rp.Pinch.MinPoreVolume)
	fmt.Printf("[%v]\t\t\t= Fill\n", rp.Pinch.Fill)
	fmt.Printf("[%v]\t\t\t= NoGap\n", rp.Pinch.NoGap)
	fmt.Printf("[%v]\t\t\t= AllCondition\n", rp.Pinch.AllCondition)
	if rp.MaxFaces != 0 || rp.MaxNodes != 0 {
		fmt.Printf("[%d, %d]\t\t= Max Faces, Nodes\n", rp.MaxFaces, rp.MaxNodes)
	}
	if len(rp.Aquifers) != 0 {
		aq := append([]int(nil), rp.Aquifers...)
		sort.Ints(aq)
		fmt.Printf("Aquifers = %v\n", aq)
	}
}
