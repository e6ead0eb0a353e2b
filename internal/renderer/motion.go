package renderer

import (
	"math"

	"github.com/ivlev/dsl2video/internal/dsl"
)

// motion holds one object's interpolation parameters. At most one motion
// exists per object id; a later declaration replaces an earlier one.
type motion struct {
	from       dsl.Point
	to         dsl.Point
	startFrame int
	endFrame   int
	ease       string
}

func easeLinear(t float64) float64 { return t }

func easeInQuad(t float64) float64 { return t * t }

func easeOutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

func easeFunc(name string) func(float64) float64 {
	switch name {
	case dsl.EaseIn:
		return easeInQuad
	case dsl.EaseOut:
		return easeOutQuad
	default:
		return easeLinear
	}
}

// buildMotions records every object's declared position and derives motion
// descriptors: inline MOVE TO clauses first, standalone MOVE commands
// after. A standalone move's from point reads the declared position, not
// the endpoint of any earlier move, so sequential moves on one object
// restart rather than chain.
func buildMotions(spec *dsl.AnimationSpec) (map[string]dsl.Point, map[string]motion) {
	positions := make(map[string]dsl.Point, len(spec.Objects))
	motions := make(map[string]motion)

	for _, obj := range spec.Objects {
		id := obj.ObjectID()
		positions[id] = obj.Origin()

		var moveTo *dsl.Point
		var dur float64
		ease := dsl.EaseLinear
		switch o := obj.(type) {
		case dsl.TextCommand:
			moveTo, dur = o.MoveTo, o.MoveDur
		case dsl.ShapeCommand:
			moveTo, dur, ease = o.MoveTo, o.MoveDur, o.Ease
		}

		if moveTo != nil && dur > 0 {
			motions[id] = motion{
				from:     obj.Origin(),
				to:       *moveTo,
				endFrame: int(math.Round(dur * float64(spec.FPS))),
				ease:     ease,
			}
		}
	}

	for _, mv := range spec.Moves {
		from, ok := positions[mv.ObjectID]
		if !ok {
			continue
		}
		motions[mv.ObjectID] = motion{
			from:     from,
			to:       mv.To,
			endFrame: int(math.Round(mv.Duration * float64(spec.FPS))),
			ease:     mv.Ease,
		}
	}

	return positions, motions
}

// position evaluates an object's interpolated position at a frame index.
// Objects without a motion are static at their declared position.
func (r *Renderer) position(id string, frame int) dsl.Point {
	m, ok := r.motions[id]
	if !ok {
		return r.positions[id]
	}

	if frame < m.startFrame {
		return m.from
	}
	if frame >= m.endFrame {
		return m.to
	}

	progress := float64(frame-m.startFrame) / math.Max(1, float64(m.endFrame-m.startFrame))
	t := easeFunc(m.ease)(progress)

	return dsl.Point{
		X: int(math.Round(float64(m.from.X) + float64(m.to.X-m.from.X)*t)),
		Y: int(math.Round(float64(m.from.Y) + float64(m.to.Y-m.from.Y)*t)),
	}
}
