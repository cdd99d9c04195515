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

	"github.com/spf13/cobra"

	"github.com/notargets/cpgrid/readfiles"
)

// PinchCmd represents the pinch command
var PinchCmd = &cobra.Command{
	Use:   "pinch",
	Short: "Run only the pinch pass",
	Long: `
Removes cells below the minimum pore volume, reports the removed cells and the
connections made across them, and optionally writes the updated model.

cpgrid pinch -F model.yaml -I params.yaml -o pinched.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunPinch(processFlags(cmd), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(PinchCmd)
	addModelFlags(PinchCmd)
}

func RunPinch(pr *Process, stdout io.Writer) (err error) {
	rp, err := pr.loadParameters()
	if err != nil {
		return
	}
	if pr.Verbose {
		rp.Print()
	}
	cp, err := pr.loadModel()
	if err != nil {
		return
	}
	res, err := runPinch(cp, rp)
	if err != nil {
		return
	}
	fmt.Fprintf(stdout, "Removed cells: %v\n", res.RemovedCells)
	for _, conn := range res.NNC {
		fmt.Fprintf(stdout, "NNC %d - %d\n", conn.Cell1, conn.Cell2)
	}
	if len(pr.OutputFile) == 0 {
		return
	}
	w, closer, err := pr.output(stdout)
	if err != nil {
		return
	}
	if err = readfiles.WriteCornerPoint(w, cp); err != nil {
		closer()
		return
	}
	return closer()
}
