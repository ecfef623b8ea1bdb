package placement

import (
	"fmt"

	"github.com/notargets/tetlattice/geometry"
	"github.com/notargets/tetlattice/tetmesh"
	"github.com/notargets/tetlattice/types"
)

// InstanceKind tells which mesh entity an instance is placed on
type InstanceKind uint8

const (
	NodeInstance InstanceKind = iota
	EdgeInstance
	ElementInstance
)

func (k InstanceKind) String() string {
	return [...]string{"node", "edge", "element"}[k]
}

// Instance is one template copy and the transform that places it
type Instance struct {
	Kind      InstanceKind
	Index     int // Node, edge or element index
	Template  Template
	Transform geometry.Affine
}

// Config selects the placement mode and its templates
type Config struct {
	Mode            types.PlacementMode
	ElementTemplate Template // ElementFill
	NodeTemplate    Template // Lattice, optional
	EdgeTemplate    Template // Lattice, optional
	ReferenceEdge   geometry.ReferenceEdge
}

// DefaultConfig fills every element with the reference tetrahedron
func DefaultConfig() Config {
	return Config{
		Mode:            types.ElementFill,
		ElementTemplate: Tetrahedron,
		ReferenceEdge:   geometry.DefaultReferenceEdge,
	}
}

// Validate checks the template selection against the mode
func (c Config) Validate() error {
	switch c.Mode {
	case types.ElementFill:
		if c.ElementTemplate == "" {
			return types.NewSelectionError("element fill mode needs an element template")
		}
		if c.NodeTemplate != "" || c.EdgeTemplate != "" {
			return types.NewSelectionError("element fill mode takes a single template, got node %q and edge %q templates",
				c.NodeTemplate, c.EdgeTemplate)
		}
	case types.Lattice:
		if c.NodeTemplate == "" && c.EdgeTemplate == "" {
			return types.NewSelectionError("lattice mode needs a node template, an edge template or both")
		}
		if c.ElementTemplate != "" {
			return types.NewSelectionError("lattice mode does not take an element template, got %q", c.ElementTemplate)
		}
	default:
		return types.NewSelectionError("unknown placement mode %v", c.Mode)
	}
	return nil
}

// Plan is the ordered list of instances a driver places and unions
type Plan struct {
	Mode      types.PlacementMode
	Instances []Instance
}

// NewPlan computes every instance transform for a mesh. It fails on the first
// degenerate element or edge and returns no partial plan.
func NewPlan(m *tetmesh.Mesh, cfg Config) (p *Plan, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	if m == nil || len(m.Elements) == 0 {
		return nil, types.NewEmptyInputError("elements")
	}
	p = &Plan{Mode: cfg.Mode}
	switch cfg.Mode {
	case types.ElementFill:
		p.Instances = make([]Instance, 0, len(m.Elements))
		for k := range m.Elements {
			var A geometry.Affine
			if A, err = geometry.ElementTransform(m.ElementVertices(k)); err != nil {
				return nil, fmt.Errorf("element %d %v: %w", k+1, m.Elements[k], err)
			}
			p.Instances = append(p.Instances, Instance{ElementInstance, k, cfg.ElementTemplate, A})
		}
	case types.Lattice:
		edges := m.Edges()
		if cfg.NodeTemplate != "" {
			for n, pt := range m.Nodes {
				p.Instances = append(p.Instances, Instance{NodeInstance, n, cfg.NodeTemplate, geometry.NodeTransform(pt)})
			}
		}
		if cfg.EdgeTemplate != "" {
			for i, e := range edges {
				p0, p1 := m.EdgeEndpoints(e)
				var ep geometry.EdgePlacement
				if ep, err = geometry.EdgeTransform(p0, p1, cfg.ReferenceEdge); err != nil {
					return nil, fmt.Errorf("edge %d (%d,%d): %w", i, e.A+1, e.B+1, err)
				}
				p.Instances = append(p.Instances, Instance{EdgeInstance, i, cfg.EdgeTemplate, ep.Matrix})
			}
		}
	}
	if len(p.Instances) == 0 {
		return nil, types.NewEmptyInputError("instances")
	}
	return
}

// Count returns the number of instances of each kind
func (p *Plan) Count() (counts map[InstanceKind]int) {
	counts = make(map[InstanceKind]int)
	for _, inst := range p.Instances {
		counts[inst.Kind]++
	}
	return
}
