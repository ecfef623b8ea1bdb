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
	"io"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/notargets/tetlattice/InputParameters"
	"github.com/notargets/tetlattice/placement"
	"github.com/notargets/tetlattice/tetmesh"
)

// TransformsCmd represents the transforms command
var TransformsCmd = &cobra.Command{
	Use:   "transforms",
	Short: "Print the placement transform of every instance as YAML",
	Long: `Read the mesh and compute the placement transform of every instance without
building any bodies. Matrices are 4x4, row major, acting on column vectors.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.InputParameters
			p  *placement.Plan
		)
		if ip, err = processInput(cmd); err != nil {
			return
		}
		if p, err = PlanMesh(ip); err != nil {
			return
		}
		return WriteTransforms(cmd.OutOrStdout(), p)
	},
}

func init() {
	rootCmd.AddCommand(TransformsCmd)
	addMeshFlags(TransformsCmd)
}

type InstanceOut struct {
	Kind      string        `json:"Kind"`
	Index     int           `json:"Index"`
	Template  string        `json:"Template"`
	Transform [4][4]float64 `json:"Transform"`
}

type PlanOut struct {
	Mode      string        `json:"Mode"`
	Instances []InstanceOut `json:"Instances"`
}

func PlanMesh(ip *InputParameters.InputParameters) (p *placement.Plan, err error) {
	var (
		cfg placement.Config
		m   *tetmesh.Mesh
	)
	if cfg, err = ip.PlacementConfig(); err != nil {
		return
	}
	if m, err = tetmesh.ReadMesh(ip.NodeFile, ip.ElementFile, ip.MeshOptions()); err != nil {
		return
	}
	return placement.NewPlan(m, cfg)
}

func WriteTransforms(w io.Writer, p *placement.Plan) (err error) {
	out := PlanOut{Mode: p.Mode.String(), Instances: make([]InstanceOut, len(p.Instances))}
	for i, inst := range p.Instances {
		out.Instances[i] = InstanceOut{
			Kind:      inst.Kind.String(),
			Index:     inst.Index,
			Template:  string(inst.Template),
			Transform: inst.Transform.Rows(),
		}
	}
	var data []byte
	if data, err = yaml.Marshal(out); err != nil {
		return
	}
	_, err = w.Write(data)
	return
}
