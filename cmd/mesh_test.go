package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notargets/tetlattice/InputParameters"
	"github.com/notargets/tetlattice/geometry"
	"github.com/notargets/tetlattice/placement"
	"github.com/notargets/tetlattice/types"
)

const (
	singleTetNodes = `4 3 0 0
1 0 0 0
2 1 0 0
3 0 1 0
4 0 0 1
`
	singleTetElements = `1 4 0
1 1 2 3 4
`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addMeshFlags(cmd)
	cmd.Flags().StringP("feature", "f", InputParameters.DefaultFeature, "")
	cmd.Flags().StringP("output", "o", InputParameters.DefaultOutput, "")
	cmd.Flags().Int("resolution", InputParameters.DefaultResolution, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestProcessInput(t *testing.T) {
	dir := t.TempDir()
	icFile := writeFile(t, dir, "run.yaml", `
Title: Lattice
Mode: Lattice
NodeFile: cube.node
ElementFile: cube.ele
Templates:
  Node: sphere
  Edge: cylinder
Resolution: 50
`)
	{
		ip, err := processInput(newTestCmd(t, "-I", icFile))
		require.NoError(t, err)
		assert.Equal(t, "Lattice", ip.Title)
		assert.Equal(t, "cube.node", ip.NodeFile)
		assert.Equal(t, 50, ip.Resolution)
		assert.Equal(t, InputParameters.DefaultFeature, ip.Feature)
		ip.Print()
	}
	{ // Flags override the file
		ip, err := processInput(newTestCmd(t, "-I", icFile, "-N", "other.node", "--edge", "joint",
			"--resolution", "20", "-o", dir, "--nodeFooter", "--length", "5"))
		require.NoError(t, err)
		assert.Equal(t, "other.node", ip.NodeFile)
		assert.Equal(t, "cube.ele", ip.ElementFile)
		assert.Equal(t, "joint", ip.Templates.Edge)
		assert.Equal(t, "sphere", ip.Templates.Node)
		assert.Equal(t, 20, ip.Resolution)
		assert.Equal(t, dir, ip.Output)
		assert.Equal(t, 5., ip.ReferenceEdgeLength)
		assert.True(t, ip.MeshOptions().Nodes.Footer)
		assert.False(t, ip.MeshOptions().Elements.Footer)
	}
	{ // Flags alone
		ip, err := processInput(newTestCmd(t, "-N", "a.node", "-E", "a.ele", "--mode", "lattice", "--node", "sphere"))
		require.NoError(t, err)
		cfg, err := ip.PlacementConfig()
		require.NoError(t, err)
		assert.Equal(t, types.Lattice, cfg.Mode)
		assert.Equal(t, placement.Sphere, cfg.NodeTemplate)
	}
	{ // Mesh files are required
		_, err := processInput(newTestCmd(t, "-N", "a.node"))
		assert.Error(t, err)
		_, err = processInput(newTestCmd(t, "-I", filepath.Join(dir, "missing.yaml")))
		assert.Error(t, err)
	}
}

func TestRunMesh(t *testing.T) {
	dir := t.TempDir()
	ip := InputParameters.NewInputParameters()
	ip.NodeFile = writeFile(t, dir, "tet.node", singleTetNodes)
	ip.ElementFile = writeFile(t, dir, "tet.ele", singleTetElements)
	ip.Output = filepath.Join(dir, "out")
	ip.Resolution = 16
	body, err := RunMesh(ip, zap.NewNop())
	require.NoError(t, err)
	bb := body.Bounds()
	assert.InDelta(t, 1, bb.Max.X, 1e-9)
	fi, err := os.Stat(filepath.Join(ip.Output, "MeshBody.stl"))
	require.NoError(t, err)
	assert.True(t, fi.Size() > 84)

	ip.Mode = "Lattice"
	ip.Templates.Edge = "joint"
	ip.Feature = "Struts"
	_, err = RunMesh(ip, zap.NewNop())
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(ip.Output, "Struts.stl"))
	assert.NoError(t, err)
}

func TestRunMeshErrors(t *testing.T) {
	dir := t.TempDir()
	ip := InputParameters.NewInputParameters()
	ip.NodeFile = writeFile(t, dir, "tet.node", singleTetNodes)
	ip.ElementFile = writeFile(t, dir, "bad.ele", "1 4 0\n1 1 2 3\n")
	ip.Output = dir
	ip.Resolution = 16
	_, err := RunMesh(ip, zap.NewNop())
	assert.True(t, errors.Is(err, types.ErrFileFormat), err)

	ip.ElementFile = writeFile(t, dir, "empty.ele", "0 4 0\n")
	_, err = RunMesh(ip, zap.NewNop())
	assert.True(t, errors.Is(err, types.ErrEmptyInput), err)

	ip.ElementFile = writeFile(t, dir, "flat.ele", singleTetElements)
	ip.NodeFile = writeFile(t, dir, "flat.node", "4 3 0 0\n1 0 0 0\n2 1 0 0\n3 0 1 0\n4 1 1 0\n")
	_, err = RunMesh(ip, zap.NewNop())
	assert.True(t, errors.Is(err, types.ErrDegenerateGeometry), err)

	_, err = os.Stat(filepath.Join(dir, "MeshBody.stl"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteTransforms(t *testing.T) {
	dir := t.TempDir()
	ip := InputParameters.NewInputParameters()
	ip.NodeFile = writeFile(t, dir, "tet.node", singleTetNodes)
	ip.ElementFile = writeFile(t, dir, "tet.ele", singleTetElements)
	ip.Mode = "Lattice"
	ip.Templates.Edge = "joint"
	p, err := PlanMesh(ip)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteTransforms(&buf, p))

	var out PlanOut
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "Lattice", out.Mode)
	require.Len(t, out.Instances, 6)
	for i, inst := range out.Instances {
		assert.Equal(t, "edge", inst.Kind)
		assert.Equal(t, i, inst.Index)
		assert.Equal(t, "joint", inst.Template)
		assert.Equal(t, [4]float64{0, 0, 0, 1}, inst.Transform[3])
	}
	// First edge runs from node 1 to node 2 along +x with a tenth of the reference length
	assert.InDelta(t, 0.1, out.Instances[0].Transform[0][0], 1e-12)
	assert.InDelta(t, 1, out.Instances[0].Transform[1][1], 1e-12)
}

func TestRunTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := RunTemplate(placement.Tetrahedron, "UnitTetrahedron", dir, 16, geometry.DefaultReferenceEdge, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "UnitTetrahedron.stl"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	path, err = RunTemplate(placement.Joint, "defaultJoint", dir, 16, geometry.NewReferenceEdge(4), zap.NewNop())
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	_, err = RunTemplate("cube", "Cube", dir, 16, geometry.DefaultReferenceEdge, zap.NewNop())
	assert.True(t, errors.Is(err, types.ErrSelection), err)
}
