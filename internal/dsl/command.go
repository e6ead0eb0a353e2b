package dsl

// Point is an integer canvas coordinate.
type Point struct {
	X, Y int
}

// Object is a drawable scene element produced by a TEXT or SHAPE command.
// The renderer switches exhaustively over the two concrete types.
type Object interface {
	ObjectID() string
	Origin() Point
}

// TextCommand places a text run on the canvas, optionally with an inline
// move. Text moves always interpolate linearly.
type TextCommand struct {
	ID      string
	Text    string
	X, Y    int
	Size    int
	Color   string
	MoveTo  *Point
	MoveDur float64
}

func (c TextCommand) ObjectID() string { return c.ID }
func (c TextCommand) Origin() Point    { return Point{c.X, c.Y} }

// ShapeKind discriminates the supported shape primitives.
type ShapeKind string

const (
	ShapeCircle ShapeKind = "CIRCLE"
	ShapeRect   ShapeKind = "RECT"
)

// ShapeCommand places a filled circle or rectangle, optionally with an
// inline move and easing curve.
type ShapeCommand struct {
	ID      string
	Kind    ShapeKind
	X, Y    int
	Color   string
	Radius  int
	Width   int
	Height  int
	MoveTo  *Point
	MoveDur float64
	Ease    string
}

func (c ShapeCommand) ObjectID() string { return c.ID }
func (c ShapeCommand) Origin() Point    { return Point{c.X, c.Y} }

// MoveCommand is a standalone MOVE line targeting a previously declared
// object by id.
type MoveCommand struct {
	ObjectID string
	To       Point
	Duration float64
	Ease     string
}

// AnimationSpec is the validated scene description produced by Parse.
// It is never mutated after Parse returns.
type AnimationSpec struct {
	Background string
	FPS        int
	Duration   float64
	Objects    []Object
	Moves      []MoveCommand
}

// TotalFrames is floor(fps * duration).
func (s *AnimationSpec) TotalFrames() int {
	return int(float64(s.FPS) * s.Duration)
}
