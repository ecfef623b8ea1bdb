package placement

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/notargets/tetlattice/types"
)

// Driver places a plan's instances with a kernel and commits their union
type Driver struct {
	Kernel Kernel
	Log    *zap.Logger
}

func NewDriver(k Kernel, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{Kernel: k, Log: log}
}

// Build instantiates and transforms every instance of the plan, in plan order
func (d *Driver) Build(p *Plan) (bodies []Body, err error) {
	if p == nil || len(p.Instances) == 0 {
		return nil, types.NewEmptyInputError("bodies")
	}
	bodies = make([]Body, 0, len(p.Instances))
	for _, inst := range p.Instances {
		var b Body
		if b, err = d.Kernel.Instantiate(inst.Template); err != nil {
			return nil, fmt.Errorf("%s %d: %w", inst.Kind, inst.Index, err)
		}
		if b, err = d.Kernel.Transform(b, inst.Transform); err != nil {
			return nil, fmt.Errorf("%s %d: %w", inst.Kind, inst.Index, err)
		}
		bodies = append(bodies, b)
	}
	d.Log.Debug("built instances", zap.Int("bodies", len(bodies)))
	return
}

// Union folds the bodies left to right into bodies[0]
func (d *Driver) Union(bodies []Body) (result Body, err error) {
	if len(bodies) == 0 {
		return nil, types.NewEmptyInputError("bodies")
	}
	result = bodies[0]
	for i, b := range bodies[1:] {
		if result, err = d.Kernel.Union(result, b); err != nil {
			return nil, fmt.Errorf("union of body %d: %w", i+1, err)
		}
	}
	return
}

// Place builds every instance, unions them and commits the result as one
// feature. Nothing is committed unless every step before it succeeded.
func (d *Driver) Place(p *Plan, feature string) (result Body, err error) {
	var bodies []Body
	if bodies, err = d.Build(p); err != nil {
		return
	}
	if result, err = d.Union(bodies); err != nil {
		return
	}
	if err = d.Kernel.Commit(feature, result); err != nil {
		return nil, fmt.Errorf("commit %s: %w", feature, err)
	}
	bb := result.Bounds()
	d.Log.Info("committed feature",
		zap.String("feature", feature),
		zap.Stringer("mode", p.Mode),
		zap.Int("bodies", len(bodies)),
		zap.Float64s("min", []float64{bb.Min.X, bb.Min.Y, bb.Min.Z}),
		zap.Float64s("max", []float64{bb.Max.X, bb.Max.Y, bb.Max.Z}))
	return
}
