// Package timing measures labelled sections of work on the monotonic clock.
package timing

import (
	"fmt"
	"time"
)

// Result pairs a label with the time measured for it.
type Result struct {
	Label   string
	Elapsed time.Duration
}

// String renders the result as a console summary line, for example
// "Recursive walk       took: 0.012345 seconds.".
func (r Result) String() string {
	return fmt.Sprintf("%-20s took: %.6f seconds.", r.Label, r.Elapsed.Seconds())
}

// Timer is a running measurement started by Start.
type Timer struct {
	label   string
	start   time.Time
	elapsed time.Duration
	stopped bool
}

// Start begins timing label.
func Start(label string) *Timer {
	return &Timer{label: label, start: time.Now()}
}

// Stop ends the measurement and returns its result. Further calls return
// the same result.
func (t *Timer) Stop() Result {
	if !t.stopped {
		t.elapsed = time.Since(t.start)
		t.stopped = true
	}
	return t.Result()
}

// Result returns the measurement so far, or the final one once stopped.
func (t *Timer) Result() Result {
	if t.stopped {
		return Result{Label: t.label, Elapsed: t.elapsed}
	}
	return Result{Label: t.label, Elapsed: time.Since(t.start)}
}

// Measure runs fn inside a timer labelled label. The result is returned
// whether or not fn fails.
func Measure(label string, fn func() error) (Result, error) {
	t := Start(label)
	err := fn()
	return t.Stop(), err
}
