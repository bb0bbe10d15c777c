// Package compare runs the recursive walker and the stack scanner over the
// same root, one after the other, and times each pass.
package compare

import (
	"fmt"
	"io"

	"github.com/TFMV/walkscan/internal/config"
	"github.com/TFMV/walkscan/internal/report"
	"github.com/TFMV/walkscan/internal/timing"
	walkscan "github.com/TFMV/walkscan/internal/walk"
	"go.uber.org/zap"
)

// Labels used for the timing summary.
const (
	WalkLabel = "Recursive walk"
	ScanLabel = "Stack scan"
)

// Summary holds the timing of both passes.
type Summary struct {
	Walk timing.Result
	Scan timing.Result
}

// Lines returns the console summary, one line per engine.
func (s Summary) Lines() []string {
	return []string{s.Walk.String(), s.Scan.String()}
}

// Runner executes a comparison.
type Runner struct {
	cfg      config.Config
	logger   *zap.Logger
	progress io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger handed to both engines.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithProgress draws a spinner on w while each pass runs.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) { r.progress = w }
}

// NewRunner returns a runner for cfg.
func NewRunner(cfg config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run writes the full report for both passes to out. A fatal error from
// either pass stops the run; whatever was already written stays in out.
func (r *Runner) Run(out io.Writer) (Summary, error) {
	var summary Summary

	opts, err := r.cfg.Options(r.logger)
	if err != nil {
		return summary, err
	}
	text := report.NewText(out)

	summary.Walk, err = timing.Measure(WalkLabel, func() error {
		if err := text.WalkHeader(); err != nil {
			return err
		}
		var sink walkscan.LevelSink = text
		if r.progress != nil {
			bar := report.NewSpinner(r.progress, WalkLabel)
			defer bar.Finish()
			sink = report.WalkProgress(sink, bar)
		}
		return walkscan.NewRecursiveWalker(opts).Walk(r.cfg.RootDir, sink)
	})
	if err != nil {
		return summary, fmt.Errorf("recursive walk: %w", err)
	}
	r.logger.Info("recursive walk complete", zap.Duration("elapsed", summary.Walk.Elapsed))

	summary.Scan, err = timing.Measure(ScanLabel, func() error {
		if err := text.ScanHeader(); err != nil {
			return err
		}
		var sink walkscan.ScanSink = text
		if r.progress != nil {
			bar := report.NewSpinner(r.progress, ScanLabel)
			defer bar.Finish()
			sink = report.ScanProgress(sink, bar)
		}
		return walkscan.NewStackScanner(opts).Scan(r.cfg.RootDir, sink)
	})
	if err != nil {
		return summary, fmt.Errorf("stack scan: %w", err)
	}
	r.logger.Info("stack scan complete", zap.Duration("elapsed", summary.Scan.Elapsed))

	return summary, text.Footer()
}
