// Package walk exposes the walkscan traversal engines: a recursive walker
// that reports one directory level at a time and a stack scanner that
// reports entries as a breadth-first work queue discovers them.
//
// # Recursive walk
//
// The walker hands each directory to a LevelSink as a single batch. The
// directory's subdirectories are all known before any of them is entered:
//
//	exclude, _ := walk.NewExclusionSet(".git", "node_modules")
//	w := walk.NewRecursiveWalker(walk.Options{Exclude: exclude})
//	err := w.Walk("/path/to/tree", walk.LevelSinkFunc(func(l walk.Level) error {
//		fmt.Println(l.Path, len(l.Subdirs), len(l.Files))
//		return nil
//	}))
//
// # Stack scan
//
// The scanner reports every entry as it is read and queues subdirectories
// for later, so a whole level is reported before the next one starts:
//
//	s := walk.NewStackScanner(walk.Options{Exclude: exclude})
//	err := s.Scan("/path/to/tree", sink)
//
// Entries that are neither files nor directories, such as dangling symbolic
// links, are reported by both engines with Kind set to KindOther and no
// metadata.
//
// # Watch
//
//	err := walk.Watch(ctx, "/path/to/tree", walk.WatchOptions{}, func(ctx context.Context, batch []walk.WatchMessage) error {
//		fmt.Printf("%d changes\n", len(batch))
//		return nil
//	})
package walk
