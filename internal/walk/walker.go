package walkscan

import (
	"fmt"
	"sort"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// Level is the batch produced for one directory by the recursive walker:
// the directory path together with all of its immediate subdirectories and
// files, available before any subdirectory is descended into.
type Level struct {
	Path    string
	Subdirs []Entry // every immediate subdirectory, annotated
	Files   []Entry // every immediate non-directory entry
	// Dirs holds the names that will be descended into once the visit
	// callback returns. Removing a name prunes that subtree.
	Dirs []string
}

// LevelSink receives each level produced by the recursive walker.
type LevelSink interface {
	Level(l Level) error
}

// LevelSinkFunc adapts a function to the LevelSink interface.
type LevelSinkFunc func(l Level) error

// Level calls f(l).
func (f LevelSinkFunc) Level(l Level) error { return f(l) }

// RecursiveWalker traverses a tree depth-first, pre-order, one level at a time.
type RecursiveWalker struct {
	opts Options
}

// NewRecursiveWalker returns a walker using opts.
func NewRecursiveWalker(opts Options) *RecursiveWalker {
	return &RecursiveWalker{opts: opts}
}

// Walk visits every non-excluded directory under root and reports its level
// to sink. It fails if root is missing or not a directory; subdirectories
// that cannot be read are skipped. Entries that are neither files nor
// directories are reported without metadata.
func (w *RecursiveWalker) Walk(root string, sink LevelSink) error {
	if err := validateRoot(root); err != nil {
		return err
	}
	logger := w.opts.logger()
	logger.Debug("starting recursive walk",
		zap.String("root", root),
		zap.Strings("exclude", w.opts.Exclude.Names()),
	)

	return walkLevels(root, w.opts, func(l *Level) error {
		for _, pos := range excludeDirs(l, w.opts.Exclude) {
			logger.Debug("omitting directory", zap.String("path", l.Subdirs[pos].Path))
		}
		for i := range l.Subdirs {
			sub := &l.Subdirs[i]
			sub.Unfollowed = sub.Symlink && !sub.Excluded && !w.opts.FollowSymlinks
		}

		for i := range l.Files {
			file := &l.Files[i]
			if file.Kind != KindFile {
				logger.Warn("entry is not a file or directory", zap.String("path", file.Path))
				continue
			}
			if err := statFile(file, w.opts); err != nil {
				return err
			}
		}
		return sink.Level(*l)
	})
}

// walkLevels is the traversal primitive behind RecursiveWalker. It reads a
// directory, hands the level to visit, and then recurses into the names
// left in Level.Dirs.
func walkLevels(root string, opts Options, visit func(*Level) error) error {
	scratch := make([]byte, godirwalk.MinimumScratchBufferSize)
	return walkLevel(root, true, opts, scratch, visit)
}

func walkLevel(dir string, isRoot bool, opts Options, scratch []byte, visit func(*Level) error) error {
	dirents, err := godirwalk.ReadDirents(dir, scratch)
	if err != nil {
		if isRoot {
			return fmt.Errorf("walkscan: read %q: %w", dir, err)
		}
		opts.logger().Debug("skipping unreadable directory", zap.String("path", dir), zap.Error(err))
		return nil
	}
	sort.Sort(dirents)

	level := &Level{Path: dir}
	for _, de := range dirents {
		e := Entry{Name: de.Name(), Path: joinPath(dir, de.Name())}
		e.Kind, e.Symlink = classify(e.Path, de)
		if e.Kind == KindDir {
			level.Subdirs = append(level.Subdirs, e)
			level.Dirs = append(level.Dirs, e.Name)
			continue
		}
		level.Files = append(level.Files, e)
	}

	if err := visit(level); err != nil {
		return err
	}

	symlinks := make(map[string]bool, len(level.Subdirs))
	for _, sub := range level.Subdirs {
		symlinks[sub.Name] = sub.Symlink
	}
	for _, name := range level.Dirs {
		if symlinks[name] && !opts.FollowSymlinks {
			continue
		}
		if err := walkLevel(joinPath(dir, name), false, opts, scratch, visit); err != nil {
			return err
		}
	}
	return nil
}

// excludeDirs marks every subdirectory of a freshly read level that matches
// set, then removes all of them from l.Dirs. It returns the marked positions.
func excludeDirs(l *Level, set ExclusionSet) []int {
	var removals []int
	for pos, name := range l.Dirs {
		if set.Match(name) {
			l.Subdirs[pos].Excluded = true
			removals = append(removals, pos)
		}
	}
	l.Dirs = pruneDescending(l.Dirs, removals)
	return removals
}

// pruneDescending deletes the given positions from names, highest position
// first, so earlier deletions never shift a position still to be deleted.
// The relative order of the remaining names is preserved.
func pruneDescending(names []string, positions []int) []string {
	if len(positions) == 0 {
		return names
	}
	order := append([]int(nil), positions...)
	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	last := -1
	for _, pos := range order {
		if pos == last || pos < 0 || pos >= len(names) {
			continue
		}
		names = append(names[:pos], names[pos+1:]...)
		last = pos
	}
	return names
}
