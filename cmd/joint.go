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
	"github.com/spf13/viper"

	"github.com/notargets/tetlattice/InputParameters"
	"github.com/notargets/tetlattice/geometry"
	"github.com/notargets/tetlattice/placement"
	"github.com/notargets/tetlattice/types"
)

// JointCmd represents the joint command
var JointCmd = &cobra.Command{
	Use:   "joint",
	Short: "Write the default edge joint as a feature",
	Long: `Write the default edge joint as a feature: a sphere of radius 1 on each end of
the reference edge and a cylinder of radius 0.5 between them.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		feature, _ := cmd.Flags().GetString("feature")
		length, _ := cmd.Flags().GetFloat64("length")
		if !(length > 0) {
			return types.NewSelectionError("reference edge length %v must be positive", length)
		}
		_, err = RunTemplate(placement.Joint, feature, viper.GetString("output"), viper.GetInt("resolution"),
			geometry.NewReferenceEdge(length), getLogger())
		return
	},
}

func init() {
	rootCmd.AddCommand(JointCmd)
	JointCmd.Flags().StringP("feature", "f", "defaultJoint", "name of the committed feature")
	JointCmd.Flags().Float64("length", InputParameters.DefaultReferenceEdgeLength, "length of the reference edge")
}
