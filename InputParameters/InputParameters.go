package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/tetlattice/geometry"
	"github.com/notargets/tetlattice/placement"
	"github.com/notargets/tetlattice/tetmesh"
	"github.com/notargets/tetlattice/types"
)

const (
	DefaultReferenceEdgeLength = 10.
	DefaultResolution          = 200
	DefaultOutput              = "."
	DefaultFeature             = "MeshBody"
)

// Example is a complete parameter file, printed when a command is run without input
var Example = `
########################################
Title: "Cube Lattice"
Mode: Lattice            # ElementFill | Lattice
NodeFile: cube.node
ElementFile: cube.ele
NodeFooter: false        # Last record of the node file is a footer
ElementFooter: false
Templates:
  Element: tetrahedron   # ElementFill only
  Node: sphere           # Lattice only
  Edge: cylinder         # Lattice only
ReferenceEdgeLength: 10
Resolution: 200          # Meshing cells across the longest side
Output: out              # Directory for STL features
Feature: MeshBody
########################################
`

// Template names, one per placement target
type Templates struct {
	Element string `yaml:"Element"`
	Node    string `yaml:"Node"`
	Edge    string `yaml:"Edge"`
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title               string    `yaml:"Title"`
	Mode                string    `yaml:"Mode"`
	NodeFile            string    `yaml:"NodeFile"`
	ElementFile         string    `yaml:"ElementFile"`
	NodeFooter          bool      `yaml:"NodeFooter"`
	ElementFooter       bool      `yaml:"ElementFooter"`
	Templates           Templates `yaml:"Templates"`
	ReferenceEdgeLength float64   `yaml:"ReferenceEdgeLength"`
	Resolution          int       `yaml:"Resolution"`
	Output              string    `yaml:"Output"`
	Feature             string    `yaml:"Feature"`
}

func NewInputParameters() *InputParameters {
	return &InputParameters{
		Mode:                types.ElementFill.String(),
		ReferenceEdgeLength: DefaultReferenceEdgeLength,
		Resolution:          DefaultResolution,
		Output:              DefaultOutput,
		Feature:             DefaultFeature,
	}
}

// Parse reads YAML over the current values, keys missing from data keep them
func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Mode\n", ip.Mode)
	fmt.Printf("[%s]\t\t= Node File, footer %v\n", ip.NodeFile, ip.NodeFooter)
	fmt.Printf("[%s]\t\t= Element File, footer %v\n", ip.ElementFile, ip.ElementFooter)
	if len(ip.Templates.Element) != 0 {
		fmt.Printf("[%s]\t\t= Element Template\n", ip.Templates.Element)
	}
	if len(ip.Templates.Node) != 0 {
		fmt.Printf("[%s]\t\t= Node Template\n", ip.Templates.Node)
	}
	if len(ip.Templates.Edge) != 0 {
		fmt.Printf("[%s]\t\t= Edge Template\n", ip.Templates.Edge)
	}
	fmt.Printf("%8.5f\t\t= Reference Edge Length\n", ip.ReferenceEdgeLength)
	fmt.Printf("[%d]\t\t\t= Resolution\n", ip.Resolution)
	fmt.Printf("[%s]\t\t\t= Output\n", ip.Output)
	fmt.Printf("[%s]\t\t= Feature\n", ip.Feature)
}

func (ip *InputParameters) MeshOptions() tetmesh.MeshOptions {
	return tetmesh.MeshOptions{
		Nodes:    tetmesh.ReadOptions{Footer: ip.NodeFooter},
		Elements: tetmesh.ReadOptions{Footer: ip.ElementFooter},
	}
}

// PlacementConfig validates the mode and templates. ElementFill without an
// element template fills with the reference tetrahedron.
func (ip *InputParameters) PlacementConfig() (cfg placement.Config, err error) {
	if cfg.Mode, err = types.NewPlacementMode(ip.Mode); err != nil {
		return
	}
	if !(ip.ReferenceEdgeLength > 0) {
		err = types.NewSelectionError("reference edge length %v must be positive", ip.ReferenceEdgeLength)
		return
	}
	cfg.ReferenceEdge = geometry.NewReferenceEdge(ip.ReferenceEdgeLength)
	cfg.ElementTemplate = placement.Template(ip.Templates.Element)
	cfg.NodeTemplate = placement.Template(ip.Templates.Node)
	cfg.EdgeTemplate = placement.Template(ip.Templates.Edge)
	if cfg.Mode == types.ElementFill && cfg.ElementTemplate == "" {
		cfg.ElementTemplate = placement.Tetrahedron
	}
	err = cfg.Validate()
	return
}
