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
	"github.com/spf13/cobra"

	"github.com/notargets/tetlattice/InputParameters"
	"github.com/notargets/tetlattice/tetmesh"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print mesh statistics",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.InputParameters
			m  *tetmesh.Mesh
		)
		if ip, err = processInput(cmd); err != nil {
			return
		}
		if m, err = tetmesh.ReadMesh(ip.NodeFile, ip.ElementFile, ip.MeshOptions()); err != nil {
			return
		}
		m.PrintStatistics()
		return
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
	addMeshFlags(InfoCmd)
}
