package walk

import (
	"context"

	internal "github.com/TFMV/walkscan/internal/walk"
	"go.uber.org/zap"
)

// Re-export all the types from the internal package
type (
	// Options configures both traversal engines.
	Options = internal.Options

	// ExclusionSet is a set of directory names that are never descended into.
	ExclusionSet = internal.ExclusionSet

	// Entry is a filesystem object discovered during a traversal pass.
	Entry = internal.Entry

	// Kind classifies an Entry.
	Kind = internal.Kind

	// Level is one directory's batch of subdirectories and files.
	Level = internal.Level

	// LevelSink receives the recursive walker's levels.
	LevelSink = internal.LevelSink

	// LevelSinkFunc adapts a function to LevelSink.
	LevelSinkFunc = internal.LevelSinkFunc

	// ScanSink receives the stack scanner's entries.
	ScanSink = internal.ScanSink

	// RecursiveWalker traverses depth-first.
	RecursiveWalker = internal.RecursiveWalker

	// StackScanner traverses breadth-first.
	StackScanner = internal.StackScanner

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// Re-export watch types
	WatchEvent   = internal.WatchEvent
	WatchOptions = internal.WatchOptions
	WatchMessage = internal.WatchMessage
	WatchHandler = internal.WatchHandler
)

// Re-export all the constants
const (
	// Entry kinds
	KindOther = internal.KindOther
	KindDir   = internal.KindDir
	KindFile  = internal.KindFile

	// Log levels
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	// Watch event constants
	EventCreate = internal.EventCreate
	EventModify = internal.EventModify
	EventDelete = internal.EventDelete
	EventRename = internal.EventRename
	EventChmod  = internal.EventChmod
)

// ErrNotDirectory is returned when a traversal root is not a directory.
var ErrNotDirectory = internal.ErrNotDirectory

// NewExclusionSet builds an exclusion set from directory names or patterns.
func NewExclusionSet(names ...string) (ExclusionSet, error) {
	return internal.NewExclusionSet(names...)
}

// NewRecursiveWalker returns a depth-first walker.
func NewRecursiveWalker(opts Options) *RecursiveWalker {
	return internal.NewRecursiveWalker(opts)
}

// NewStackScanner returns a breadth-first scanner.
func NewStackScanner(opts Options) *StackScanner {
	return internal.NewStackScanner(opts)
}

// RootLength returns the prefix length stripped from scanned paths.
func RootLength(root string) int {
	return internal.RootLength(root)
}

// NewLogger creates a zap logger with the specified log level.
func NewLogger(level LogLevel) *zap.Logger {
	return internal.NewLogger(level)
}

// Watch monitors root and calls handler after every burst of changes.
func Watch(ctx context.Context, root string, opts WatchOptions, handler WatchHandler) error {
	return internal.Watch(ctx, root, opts, handler)
}
