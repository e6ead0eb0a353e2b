package renderer

import (
	"testing"

	"github.com/ivlev/dsl2video/internal/dsl"
)

func TestEasingBoundaries(t *testing.T) {
	for _, name := range []string{dsl.EaseLinear, dsl.EaseIn, dsl.EaseOut} {
		f := easeFunc(name)
		if got := f(0); got != 0 {
			t.Errorf("%s(0) = %g, want 0", name, got)
		}
		if got := f(1); got != 1 {
			t.Errorf("%s(1) = %g, want 1", name, got)
		}
	}
}

func TestEasingMidpoint(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{dsl.EaseLinear, 0.5},
		{dsl.EaseIn, 0.25},
		{dsl.EaseOut, 0.75},
	}
	for _, tt := range tests {
		if got := easeFunc(tt.name)(0.5); got != tt.want {
			t.Errorf("%s(0.5) = %g, want %g", tt.name, got, tt.want)
		}
	}
}

func TestEaseFuncUnknownIsLinear(t *testing.T) {
	if got := easeFunc("bouncy")(0.3); got != 0.3 {
		t.Errorf("unknown ease(0.3) = %g, want 0.3", got)
	}
}

func movingCircleSpec(ease string) *dsl.AnimationSpec {
	to := dsl.Point{X: 100, Y: 0}
	return &dsl.AnimationSpec{
		Background: "#202020",
		FPS:        10,
		Duration:   1,
		Objects: []dsl.Object{
			dsl.ShapeCommand{
				ID: "ball", Kind: dsl.ShapeCircle,
				X: 0, Y: 0, Color: "#FF0000", Radius: 5,
				MoveTo: &to, MoveDur: 1, Ease: ease,
			},
		},
	}
}

func TestPositionEndpoints(t *testing.T) {
	spec := movingCircleSpec(dsl.EaseLinear)
	r := New(spec, 640, 360, Options{})

	if got := r.position("ball", 0); got != (dsl.Point{X: 0, Y: 0}) {
		t.Errorf("frame 0 position = %v, want {0 0}", got)
	}
	// endFrame = round(1 * 10) = 10, reached exactly
	if got := r.position("ball", 10); got != (dsl.Point{X: 100, Y: 0}) {
		t.Errorf("end frame position = %v, want {100 0}", got)
	}
	if got := r.position("ball", 50); got != (dsl.Point{X: 100, Y: 0}) {
		t.Errorf("past-end position = %v, want {100 0}", got)
	}
}

func TestPositionLinearMidpoint(t *testing.T) {
	spec := movingCircleSpec(dsl.EaseLinear)
	r := New(spec, 640, 360, Options{})

	if got := r.position("ball", 5); got != (dsl.Point{X: 50, Y: 0}) {
		t.Errorf("midpoint position = %v, want {50 0}", got)
	}
}

func TestPositionEaseInLagsLinear(t *testing.T) {
	spec := movingCircleSpec(dsl.EaseIn)
	r := New(spec, 640, 360, Options{})

	// t=0.5, eased 0.25
	if got := r.position("ball", 5); got != (dsl.Point{X: 25, Y: 0}) {
		t.Errorf("ease-in midpoint = %v, want {25 0}", got)
	}
}

func TestPositionStaticObject(t *testing.T) {
	spec := &dsl.AnimationSpec{
		Background: "#202020",
		FPS:        10,
		Duration:   1,
		Objects: []dsl.Object{
			dsl.TextCommand{ID: "label", Text: "hi", X: 30, Y: 40, Size: 20, Color: "#FFFFFF"},
		},
	}
	r := New(spec, 640, 360, Options{})
	for _, frame := range []int{0, 3, 9} {
		if got := r.position("label", frame); got != (dsl.Point{X: 30, Y: 40}) {
			t.Errorf("frame %d position = %v, want {30 40}", frame, got)
		}
	}
}

func TestStandaloneMoveReplacesInline(t *testing.T) {
	spec := movingCircleSpec(dsl.EaseLinear)
	spec.Moves = []dsl.MoveCommand{
		{ObjectID: "ball", To: dsl.Point{X: 0, Y: 200}, Duration: 1, Ease: dsl.EaseLinear},
	}
	r := New(spec, 640, 360, Options{})

	// the later MOVE wins and restarts from the declared position
	if got := r.position("ball", 0); got != (dsl.Point{X: 0, Y: 0}) {
		t.Errorf("frame 0 position = %v, want {0 0}", got)
	}
	if got := r.position("ball", 10); got != (dsl.Point{X: 0, Y: 200}) {
		t.Errorf("end frame position = %v, want {0 200}", got)
	}
}

func TestMoveUnknownObjectIgnored(t *testing.T) {
	spec := movingCircleSpec(dsl.EaseLinear)
	spec.Moves = []dsl.MoveCommand{
		{ObjectID: "ghost", To: dsl.Point{X: 9, Y: 9}, Duration: 1, Ease: dsl.EaseLinear},
	}
	_, motions := buildMotions(spec)
	if _, ok := motions["ghost"]; ok {
		t.Error("move targeting an undeclared id produced a motion")
	}
}

func TestTextInlineMoveIsLinear(t *testing.T) {
	to := dsl.Point{X: 100, Y: 100}
	spec := &dsl.AnimationSpec{
		Background: "#202020",
		FPS:        10,
		Duration:   1,
		Objects: []dsl.Object{
			dsl.TextCommand{ID: "t", Text: "hi", X: 0, Y: 0, Size: 20, Color: "#FFFFFF", MoveTo: &to, MoveDur: 1},
		},
	}
	_, motions := buildMotions(spec)
	if got := motions["t"].ease; got != dsl.EaseLinear {
		t.Errorf("text motion ease = %q, want linear", got)
	}
}
