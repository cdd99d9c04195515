/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	perf "github.com/hodgesds/perf-utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/cpgrid/InputParameters"
	"github.com/notargets/cpgrid/cornerpoint"
	"github.com/notargets/cpgrid/pinch"
	"github.com/notargets/cpgrid/readfiles"
	"github.com/notargets/cpgrid/topology"
	"github.com/notargets/cpgrid/utils"
)

type Process struct {
	ModelFile  string
	ParamFile  string
	OutputFile string
	Box        string // nx,ny,nz for a unit cell box instead of a model file
	Full       bool
	Workers    int
	PerfStats  bool
	Verbose    bool
}

// ProcessCmd represents the process command
var ProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the pinch pass and build the processed grid",
	Long: `
Reads a corner-point model, removes cells below the minimum pore volume,
builds the face topology and writes it as YAML.

cpgrid process -F model.yaml -I params.yaml -o grid.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pr := processFlags(cmd)
		return RunProcess(pr, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(ProcessCmd)
	addModelFlags(ProcessCmd)
	ProcessCmd.Flags().Bool("full", false, "write every vertex and face, not only the summary")
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("modelFile", "F", "", "corner-point model file in YAML or JSON")
	cmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for run parameters like:\n\t- Tolerance\n\t- Pinch.MinPoreVolume")
	cmd.Flags().StringP("output", "o", "", "output file, default is standard output")
	cmd.Flags().String("box", "", "build a unit cell box nx,ny,nz instead of reading a model file")
}

func processFlags(cmd *cobra.Command) (pr *Process) {
	pr = &Process{
		Workers:   viper.GetInt("workers"),
		PerfStats: viper.GetBool("perfStats"),
		Verbose:   viper.GetBool("verbose"),
	}
	pr.ModelFile, _ = cmd.Flags().GetString("modelFile")
	pr.ParamFile, _ = cmd.Flags().GetString("inputParametersFile")
	pr.OutputFile, _ = cmd.Flags().GetString("output")
	pr.Box, _ = cmd.Flags().GetString("box")
	if cmd.Flags().Lookup("full") != nil {
		pr.Full, _ = cmd.Flags().GetBool("full")
	}
	return
}

func (pr *Process) loadParameters() (rp *InputParameters.RunParameters, err error) {
	rp = InputParameters.NewRunParameters()
	if len(pr.ParamFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(pr.ParamFile); err != nil {
			return nil, err
		}
		if err = rp.Parse(data); err != nil {
			return nil, fmt.Errorf("parameters file %s: %w", pr.ParamFile, err)
		}
	}
	if err = rp.Validate(); err != nil {
		return nil, fmt.Errorf("%w\nExample File:%s", err, InputParameters.ExampleFile)
	}
	return
}

func (pr *Process) loadModel() (cp *readfiles.CornerPointFile, err error) {
	switch {
	case len(pr.Box) != 0:
		var dims [3]int
		fields := strings.Split(pr.Box, ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("box must be nx,ny,nz, have %q", pr.Box)
		}
		for n, f := range fields {
			if dims[n], err = strconv.Atoi(strings.TrimSpace(f)); err != nil {
				return nil, fmt.Errorf("box must be nx,ny,nz: %w", err)
			}
		}
		m := cornerpoint.NewCartesian(dims[0], dims[1], dims[2], 1, 1, 1)
		cp = &readfiles.CornerPointFile{Dims: m.Dims, Coord: m.Coord, Zcorn: m.Zcorn}
		if _, err = cp.Model(); err != nil {
			return nil, err
		}
		return
	case len(pr.ModelFile) != 0:
		return readfiles.ReadCornerPoint(pr.ModelFile, pr.Verbose)
	}
	return nil, fmt.Errorf("must supply a model file (-F, --modelFile) or a box (--box nx,ny,nz)")
}

// runPinch feeds the model geometry and properties through the pinch pass,
// updating Zcorn in place and switching off the removed cells.
func runPinch(cp *readfiles.CornerPointFile, rp *InputParameters.RunParameters) (res pinch.Result, err error) {
	var (
		m     *cornerpoint.Model
		pv    []float64
		poro  = cp.Poro
		n     int
		minPV []float64
	)
	if m, err = cp.Model(); err != nil {
		return
	}
	n = m.NumCells()
	if len(poro) == 0 {
		poro = make([]float64, n)
		for c := range poro {
			poro[c] = rp.Pinch.Porosity
		}
	}
	if pv, err = m.PoreVolumes(poro, cp.NTG); err != nil {
		return
	}
	minPV = make([]float64, n)
	for c := range minPV {
		minPV[c] = rp.Pinch.MinPoreVolume
	}
	proc := pinch.NewProcessor(m.Dims[0], m.Dims[1], m.Dims[2])
	if res, err = proc.Process(pinch.Input{
		Policy:        rp.Policy(),
		Thickness:     m.CellThickness(),
		PoreVolume:    pv,
		MinPoreVolume: minPV,
		Actnum:        cp.Actnum,
		Zcorn:         cp.Zcorn,
		PermZ:         cp.PermZ,
		MultZ:         cp.MultZFunc(),
	}); err != nil {
		return
	}
	cp.Actnum = res.Deactivate(cp.Actnum, n)
	slog.Debug("pinch pass done", "removed", len(res.RemovedCells), "nnc", len(res.NNC))
	return
}

func (pr *Process) output(stdout io.Writer) (w io.Writer, closer func() error, err error) {
	if len(pr.OutputFile) == 0 {
		return stdout, func() error { return nil }, nil
	}
	var f *os.File
	if f, err = os.Create(pr.OutputFile); err != nil {
		return
	}
	return f, f.Close, nil
}

func RunProcess(pr *Process, stdout io.Writer) (err error) {
	var (
		rp  *InputParameters.RunParameters
		cp  *readfiles.CornerPointFile
		res pinch.Result
		m   *cornerpoint.Model
		g   *topology.ProcessedGrid
	)
	if rp, err = pr.loadParameters(); err != nil {
		return
	}
	if pr.Verbose {
		rp.Print()
	}
	if cp, err = pr.loadModel(); err != nil {
		return
	}
	if res, err = runPinch(cp, rp); err != nil {
		return
	}
	if m, err = cp.Model(); err != nil {
		return
	}
	opts := topology.Options{
		Tolerance:   rp.Tolerance,
		IsAquifer:   rp.IsAquifer(),
		PinchActive: rp.PinchActive,
		NNC:         res.NNC,
		MaxFaces:    rp.MaxFaces,
		MaxNodes:    rp.MaxNodes,
		Workers:     pr.Workers,
	}
	start := time.Now()
	build := func() (err error) {
		g, err = topology.Build(m, opts)
		return
	}
	if pr.PerfStats {
		var pv *perf.ProfileValue
		if pv, err = perf.CPUInstructions(build); err != nil {
			return
		}
		slog.Info("topology build", "instructions", pv.Value, "elapsed", time.Since(start))
	} else if err = build(); err != nil {
		return
	}
	defer g.Release()
	slog.Info("processed grid",
		"cells", g.NumberOfCells(), "nodes", g.NumberOfNodes(), "faces", g.NumberOfFaces(),
		"removed", len(res.RemovedCells), "elapsed", time.Since(start))
	if pr.Verbose {
		slog.Debug("memory", "usage", utils.GetMemUsage())
	}
	w, closer, err := pr.output(stdout)
	if err != nil {
		return
	}
	if err = readfiles.WriteProcessedGrid(w, g, !pr.Full); err != nil {
		closer()
		return
	}
	return closer()
}
