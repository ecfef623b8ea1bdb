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
	"io/ioutil"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/tetlattice/InputParameters"
	"github.com/notargets/tetlattice/placement"
	"github.com/notargets/tetlattice/solid"
	"github.com/notargets/tetlattice/tetmesh"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Place template bodies on a tetrahedral mesh and union them into one feature",
	Long: `Place template bodies on a tetrahedral mesh and union them into one feature.

In ElementFill mode every element gets a copy of the element template (default
tetrahedron). In Lattice mode every node gets the node template and every edge
gets the edge template, stretched along its length.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var ip *InputParameters.InputParameters
		if ip, err = processInput(cmd); err != nil {
			return
		}
		if verbose {
			ip.Print()
		}
		_, err = RunMesh(ip, getLogger())
		return
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	addMeshFlags(MeshCmd)
	MeshCmd.Flags().StringP("feature", "f", InputParameters.DefaultFeature, "name of the committed feature")
}

func addMeshFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("nodeFile", "N", "", "node file: header line, then <id> <x> <y> <z> per line")
	cmd.Flags().StringP("elementFile", "E", "", "element file: header line, then <id> <n1> <n2> <n3> <n4> per line")
	cmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for run parameters like:\n\t- Mode\n\t- Templates")
	cmd.Flags().StringP("mode", "m", "", "placement mode, ElementFill or Lattice")
	cmd.Flags().String("element", "", "element template (ElementFill)")
	cmd.Flags().String("node", "", "node template (Lattice)")
	cmd.Flags().String("edge", "", "edge template (Lattice)")
	cmd.Flags().Float64("length", InputParameters.DefaultReferenceEdgeLength, "reference edge length of the edge template")
	cmd.Flags().Bool("nodeFooter", false, "the last record of the node file is a footer")
	cmd.Flags().Bool("elementFooter", false, "the last record of the element file is a footer")
}

// processInput merges, in increasing precedence, the defaults, the config
// file and environment, the run parameters file and the flags set on the
// command line.
func processInput(cmd *cobra.Command) (ip *InputParameters.InputParameters, err error) {
	ip = InputParameters.NewInputParameters()
	ip.Output = viper.GetString("output")
	ip.Resolution = viper.GetInt("resolution")
	var icFile string
	if icFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
		return
	}
	if len(icFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(icFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", icFile, err)
		}
	}
	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"nodeFile":    &ip.NodeFile,
		"elementFile": &ip.ElementFile,
		"mode":        &ip.Mode,
		"element":     &ip.Templates.Element,
		"node":        &ip.Templates.Node,
		"edge":        &ip.Templates.Edge,
		"output":      &ip.Output,
		"feature":     &ip.Feature,
	} {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("resolution") {
		ip.Resolution, _ = flags.GetInt("resolution")
	}
	if flags.Changed("length") {
		ip.ReferenceEdgeLength, _ = flags.GetFloat64("length")
	}
	if flags.Changed("nodeFooter") {
		ip.NodeFooter, _ = flags.GetBool("nodeFooter")
	}
	if flags.Changed("elementFooter") {
		ip.ElementFooter, _ = flags.GetBool("elementFooter")
	}
	if len(ip.NodeFile) == 0 || len(ip.ElementFile) == 0 {
		fmt.Printf("error: must supply a node file (-N, --nodeFile) and an element file (-E, --elementFile)," +
			" or an input parameters file (-I, --inputParametersFile) naming both\n")
		fmt.Printf("Example File:%s\n", InputParameters.Example)
		return nil, fmt.Errorf("missing mesh files")
	}
	return
}

// RunMesh reads the mesh, plans every instance and commits their union
func RunMesh(ip *InputParameters.InputParameters, log *zap.Logger) (body placement.Body, err error) {
	var (
		cfg placement.Config
		m   *tetmesh.Mesh
		p   *placement.Plan
	)
	if cfg, err = ip.PlacementConfig(); err != nil {
		return
	}
	if m, err = tetmesh.ReadMesh(ip.NodeFile, ip.ElementFile, ip.MeshOptions()); err != nil {
		return
	}
	log.Info("read mesh",
		zap.String("nodes", ip.NodeFile), zap.Int("numNodes", len(m.Nodes)),
		zap.String("elements", ip.ElementFile), zap.Int("numElements", len(m.Elements)))
	if p, err = placement.NewPlan(m, cfg); err != nil {
		return
	}
	k := solid.NewKernel(ip.Output, ip.Resolution, cfg.ReferenceEdge, log)
	return placement.NewDriver(k, log).Place(p, ip.Feature)
}
