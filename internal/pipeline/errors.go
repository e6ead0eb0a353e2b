package pipeline

import (
	"fmt"
	"time"
)

// RenderError reports a failure during rasterization or encoding. It is an
// environment problem, not a script problem.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return fmt.Sprintf("rendering failed: %v", e.Err) }

func (e *RenderError) Unwrap() error { return e.Err }

// TimeoutError reports that the wall-clock budget was already exceeded
// when a stage boundary was reached. Stages are never interrupted
// mid-flight; only the next stage is refused.
type TimeoutError struct {
	Stage   string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s (%.2fs elapsed)", e.Stage, e.Elapsed.Seconds())
}
