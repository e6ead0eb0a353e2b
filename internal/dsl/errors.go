package dsl

import "fmt"

// ParseError reports a structural defect in the script: an unknown
// command, missing required tokens or an unparseable number.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ValidationError reports a semantic or resource-limit violation: a bad
// color, an out-of-range numeric, too many objects or frames, an unknown
// shape type. Line is 0 for whole-document checks.
type ValidationError struct {
	Line int
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}
