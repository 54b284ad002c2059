package ocr

import (
	"image"
	"time"
)

// Engine recognizes text on one prepared line image. Recognize returns the
// line's text without a trailing newline; the pool inserts the line breaks
// between a task's images. Implementations are not safe for concurrent use;
// the pool gives each worker its own instance and never moves it between
// workers.
type Engine interface {
	Recognize(img *image.Gray) (string, error)
	Close() error
}

// Factory constructs a worker's engine on first use. Construction failure
// is fatal to the run.
type Factory func() (Engine, error)

// Task is one subtitle event's worth of work: its line images in strict
// top-to-bottom order.
type Task struct {
	Index  int
	Start  time.Duration
	End    time.Duration
	Images []*image.Gray
}

// Outcome is the result for one task: recognized text, or the cause of the
// first failure. Index matches the task's position in the input sequence.
type Outcome struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
	Err   error
}

// Failed reports whether the task produced no usable text.
func (o Outcome) Failed() bool { return o.Err != nil }
