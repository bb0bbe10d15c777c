package report

import (
	"io"
	"time"

	walkscan "github.com/TFMV/walkscan/internal/walk"
	"github.com/schollz/progressbar/v3"
)

// NewSpinner returns an indeterminate progress bar counting visited entries.
func NewSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// WalkProgress counts every entry of each level on bar before passing the
// level on to next.
func WalkProgress(next walkscan.LevelSink, bar *progressbar.ProgressBar) walkscan.LevelSink {
	return walkscan.LevelSinkFunc(func(l walkscan.Level) error {
		_ = bar.Add(len(l.Subdirs) + len(l.Files))
		return next.Level(l)
	})
}

// ScanProgress counts every scanned entry on bar before passing it on to next.
func ScanProgress(next walkscan.ScanSink, bar *progressbar.ProgressBar) walkscan.ScanSink {
	return &scanProgress{next: next, bar: bar}
}

type scanProgress struct {
	next walkscan.ScanSink
	bar  *progressbar.ProgressBar
}

func (p *scanProgress) Start(root string, rootLength int) error {
	return p.next.Start(root, rootLength)
}

func (p *scanProgress) Directory(path string) error {
	return p.next.Directory(path)
}

func (p *scanProgress) Entry(e walkscan.Entry) error {
	_ = p.bar.Add(1)
	return p.next.Entry(e)
}
