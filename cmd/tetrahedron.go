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
	"go.uber.org/zap"

	"github.com/notargets/tetlattice/geometry"
	"github.com/notargets/tetlattice/placement"
	"github.com/notargets/tetlattice/solid"
)

// TetrahedronCmd represents the tetrahedron command
var TetrahedronCmd = &cobra.Command{
	Use:   "tetrahedron",
	Short: "Write the reference tetrahedron as a feature",
	Long: `Write the reference tetrahedron as a feature. Its four vertices lie on the
unit sphere, one at the north pole and three on the plane z = -1/3.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		feature, _ := cmd.Flags().GetString("feature")
		_, err = RunTemplate(placement.Tetrahedron, feature, viper.GetString("output"), viper.GetInt("resolution"),
			geometry.DefaultReferenceEdge, getLogger())
		return
	},
}

func init() {
	rootCmd.AddCommand(TetrahedronCmd)
	TetrahedronCmd.Flags().StringP("feature", "f", "UnitTetrahedron", "name of the committed feature")
}

// RunTemplate commits a single untransformed template body
func RunTemplate(t placement.Template, feature, dir string, resolution int, ref geometry.ReferenceEdge,
	log *zap.Logger) (path string, err error) {
	k := solid.NewKernel(dir, resolution, ref, log)
	var b placement.Body
	if b, err = k.Instantiate(t); err != nil {
		return
	}
	if err = k.Commit(feature, b); err != nil {
		return
	}
	return k.FeaturePath(feature), nil
}
