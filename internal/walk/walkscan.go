// Package walkscan provides two single-threaded filesystem traversal engines,
// a recursive depth-first walker and a queue driven breadth-first scanner,
// that report the same entries in different orders so they can be compared.
package walkscan

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrNotDirectory is returned when a traversal root exists but is not a directory.
var ErrNotDirectory = errors.New("walkscan: root is not a directory")

// separator is the path separator used for all joined and reported paths.
const separator = string(os.PathSeparator)

// --------------------------------------------------------------------------
// Configuration types
// --------------------------------------------------------------------------

// LogLevel defines the verbosity of logging.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Options configures both traversal engines.
type Options struct {
	Exclude        ExclusionSet // Directory names never descended into
	FollowSymlinks bool         // Descend into symbolic links to directories
	Strict         bool         // Fail when a file vanishes before it can be stat'ed
	Logger         *zap.Logger  // Defaults to a no-op logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// --------------------------------------------------------------------------
// Entries
// --------------------------------------------------------------------------

// Kind classifies a discovered entry.
type Kind int

const (
	KindOther Kind = iota // Neither a regular file nor a directory
	KindDir
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "other"
	}
}

// Entry is a filesystem object discovered during a single traversal pass.
type Entry struct {
	Name       string    // Base name
	Path       string    // Full path, built by joining the parent path and Name
	RelPath    string    // Path relative to the root with one leading separator (scanner only)
	Kind       Kind      // Directory, file or other
	ModTime    time.Time // Modification time (files only)
	Size       int64     // Size in bytes (files only)
	Symlink    bool      // The entry itself is a symbolic link
	Excluded   bool      // Directory matched the exclusion set
	Unfollowed bool      // Symlinked directory reported but not descended into
	Err        error     // Metadata lookup failure tolerated in non-strict mode
}

// Date renders the modification date as month/day/year without padding.
func (e Entry) Date() string {
	return FormatDate(e.ModTime)
}

// FormatDate formats t in local time as M/D/YYYY.
func FormatDate(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// joinPath appends name to dir without cleaning the result, so that the
// root prefix of every path keeps the exact length of the root string.
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, separator) {
		return dir + name
	}
	return dir + separator + name
}

// validateRoot checks that root exists and is a directory.
func validateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("walkscan: cannot access root %q: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return nil
}

// statFile fills in the modification time and size of a file entry. When the
// file cannot be stat'ed the error is fatal in strict mode and recorded on
// the entry otherwise.
func statFile(e *Entry, opts Options) error {
	info, err := os.Stat(e.Path)
	if err != nil {
		if opts.Strict {
			return fmt.Errorf("walkscan: stat %q: %w", e.Path, err)
		}
		opts.logger().Warn("unable to read file metadata",
			zap.String("path", e.Path),
			zap.Error(err),
		)
		e.Err = err
		return nil
	}
	e.ModTime = info.ModTime()
	e.Size = info.Size()
	return nil
}

// NewLogger creates a zap logger with the specified log level.
func NewLogger(level LogLevel) *zap.Logger {
	var config zap.Config

	switch level {
	case LogLevelError:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case LogLevelWarn:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LogLevelInfo:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case LogLevelDebug:
		config = zap.NewDevelopmentConfig() // more detailed output while debugging
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// classify determines the kind of a directory entry, following symbolic
// links to find out what they point at. A dangling link is KindOther.
func classify(path string, de *godirwalk.Dirent) (Kind, bool) {
	switch {
	case de.IsDir():
		return KindDir, false
	case de.IsRegular():
		return KindFile, false
	case de.IsSymlink():
		info, err := os.Stat(path)
		if err != nil {
			return KindOther, true
		}
		if info.IsDir() {
			return KindDir, true
		}
		if info.Mode().IsRegular() {
			return KindFile, true
		}
		return KindOther, true
	}
	return KindOther, false
}
