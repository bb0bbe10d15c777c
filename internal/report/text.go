// Package report renders the output of both traversal engines as the plain
// text comparison report.
package report

import (
	"fmt"
	"io"

	walkscan "github.com/TFMV/walkscan/internal/walk"
)

// Text writes the comparison report to an io.Writer. The first write error
// is kept and returned from every later call.
type Text struct {
	w   io.Writer
	err error
}

// NewText returns a report writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Err returns the first write error, if any.
func (t *Text) Err() error { return t.err }

func (t *Text) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// WalkHeader announces the recursive walk section.
func (t *Text) WalkHeader() error {
	t.printf("===== Try recursive walk =====\n\n")
	return t.err
}

// ScanHeader announces the stack scan section.
func (t *Text) ScanHeader() error {
	t.printf("\n\n===== Now try stack scan =====\n\n")
	return t.err
}

// Footer closes the report.
func (t *Text) Footer() error {
	t.printf("\n\n=============================\n\n")
	return t.err
}

// Level implements walkscan.LevelSink.
func (t *Text) Level(l walkscan.Level) error {
	t.printf("\nWalk path is %s\n", l.Path)

	if len(l.Subdirs) == 0 {
		t.printf("\t<<< No directories found for this pass >>>\n")
	} else {
		t.printf("\tDirectories found:\n")
		for _, dir := range l.Subdirs {
			switch {
			case dir.Excluded:
				t.printf("\t\t%s - (omitted)\n", dir.Name)
			case dir.Unfollowed:
				t.printf("\t\t%s - (symlink, not followed)\n", dir.Name)
			default:
				t.printf("\t\t%s\n", dir.Name)
			}
		}
	}

	if len(l.Files) == 0 {
		t.printf("\t<<< No files found for this pass >>>\n")
	} else {
		t.printf("\tFiles found:\n")
		for _, file := range l.Files {
			if file.Kind != walkscan.KindFile {
				t.anomaly(file)
				continue
			}
			t.printf("\t\t%s%s\n", file.Name, metadata(file))
		}
	}
	return t.err
}

// Start implements walkscan.ScanSink.
func (t *Text) Start(root string, rootLength int) error {
	t.printf("\tStarting path is %s whose length is %d\n", root, rootLength)
	return t.err
}

// Directory implements walkscan.ScanSink.
func (t *Text) Directory(path string) error {
	t.printf("\nScan path is %s\n", path)
	return t.err
}

// Entry implements walkscan.ScanSink.
func (t *Text) Entry(e walkscan.Entry) error {
	t.printf("\t\t%s", e.Name)
	switch e.Kind {
	case walkscan.KindDir:
		switch {
		case e.Excluded:
			t.printf(" - is a directory.  (omitted)\n")
		case e.Unfollowed:
			t.printf(" - is a directory.  (symlink, not followed)\n")
		default:
			t.printf(" - is a directory.  Adding to stack\n")
		}
	case walkscan.KindFile:
		t.printf("%s\n", metadata(e))
	default:
		t.printf("\n\n\n<<< Entry is not a file or directory - %s >>>\n", e.Path)
	}
	return t.err
}

func (t *Text) anomaly(e walkscan.Entry) {
	t.printf("\t\t%s\n\n\n<<< Entry is not a file or directory - %s >>>\n", e.Name, e.Path)
}

func metadata(e walkscan.Entry) string {
	if e.Err != nil {
		return fmt.Sprintf("  <<< Unable to read metadata - %v >>>", e.Err)
	}
	return fmt.Sprintf("  Last Modified Date: %s, Size: %d", e.Date(), e.Size)
}

var (
	_ walkscan.LevelSink = (*Text)(nil)
	_ walkscan.ScanSink  = (*Text)(nil)
)
