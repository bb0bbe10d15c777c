package walkscan

import (
	"fmt"
	"strings"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// ScanSink receives the stack scanner's output as it is discovered.
type ScanSink interface {
	// Start is called once with the root and its computed length.
	Start(root string, rootLength int) error
	// Directory is called each time a directory is taken off the queue.
	Directory(path string) error
	// Entry is called for every entry of the current directory.
	Entry(e Entry) error
}

// StackScanner traverses a tree breadth-first using an explicit work queue.
type StackScanner struct {
	opts Options
}

// NewStackScanner returns a scanner using opts.
func NewStackScanner(opts Options) *StackScanner {
	return &StackScanner{opts: opts}
}

// RootLength returns the length of root plus the separator that follows it
// in every descendant path. Slicing a descendant path at RootLength-1 keeps
// exactly one leading separator.
func RootLength(root string) int {
	if strings.HasSuffix(root, separator) {
		return len(root)
	}
	return len(root) + len(separator)
}

// RelativePath strips the root prefix from path, keeping one leading separator.
func RelativePath(path string, rootLength int) string {
	if rootLength-1 > len(path) {
		return ""
	}
	return path[rootLength-1:]
}

// Scan visits every non-excluded entry under root and reports it to sink.
// Directories are processed in the order they were queued. Entries that are
// neither files nor directories are reported and skipped.
func (s *StackScanner) Scan(root string, sink ScanSink) error {
	if err := validateRoot(root); err != nil {
		return err
	}
	logger := s.opts.logger()
	rootLength := RootLength(root)
	logger.Debug("starting stack scan",
		zap.String("root", root),
		zap.Int("root_length", rootLength),
	)
	if err := sink.Start(root, rootLength); err != nil {
		return err
	}

	scratch := make([]byte, godirwalk.MinimumScratchBufferSize)
	queue := newWorkQueue(root)
	for queue.Len() > 0 {
		current := queue.Pop()
		if err := sink.Directory(current); err != nil {
			return err
		}

		scanner, err := godirwalk.NewScannerWithScratchBuffer(current, scratch)
		if err != nil {
			if current == root {
				return fmt.Errorf("walkscan: scan %q: %w", current, err)
			}
			logger.Debug("skipping unreadable directory", zap.String("path", current), zap.Error(err))
			continue
		}

		for scanner.Scan() {
			de, err := scanner.Dirent()
			if err != nil {
				logger.Debug("skipping unreadable entry",
					zap.String("dir", current),
					zap.String("name", scanner.Name()),
					zap.Error(err),
				)
				continue
			}
			e := Entry{Name: de.Name(), Path: joinPath(current, de.Name())}
			e.Kind, e.Symlink = classify(e.Path, de)

			switch e.Kind {
			case KindDir:
				switch {
				case s.opts.Exclude.Match(e.Name):
					e.Excluded = true
					logger.Debug("omitting directory", zap.String("path", e.Path))
				case e.Symlink && !s.opts.FollowSymlinks:
					e.Unfollowed = true
				default:
					queue.Push(e.Path)
				}
			case KindFile:
				e.RelPath = RelativePath(e.Path, rootLength)
				if err := statFile(&e, s.opts); err != nil {
					scanner.Close()
					return err
				}
			default:
				logger.Warn("entry is not a file or directory", zap.String("path", e.Path))
			}

			if err := sink.Entry(e); err != nil {
				scanner.Close()
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			if current == root {
				return fmt.Errorf("walkscan: scan %q: %w", current, err)
			}
			logger.Debug("directory scan ended early", zap.String("path", current), zap.Error(err))
		}
	}
	return nil
}

// workQueue is a FIFO of directory paths awaiting enumeration.
type workQueue struct {
	paths []string
}

func newWorkQueue(seed ...string) *workQueue {
	return &workQueue{paths: append([]string(nil), seed...)}
}

// Push appends path at the tail.
func (q *workQueue) Push(path string) {
	q.paths = append(q.paths, path)
}

// Pop removes and returns the path at the head.
func (q *workQueue) Pop() string {
	path := q.paths[0]
	q.paths[0] = ""
	q.paths = q.paths[1:]
	return path
}

// Len returns the number of queued paths.
func (q *workQueue) Len() int { return len(q.paths) }
