package sharestat

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/charlievieth/fastwalk"
)

// tally accumulates walk counts. fastwalk invokes the callback from
// multiple goroutines, so every update holds the mutex.
type tally struct {
	mu      sync.Mutex
	files   int64
	folders int64
	bytes   int64
}

func (t *tally) addFile(size int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files++
	t.bytes += size
}

func (t *tally) addFolder() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.folders++
}

// LongPath reports whether path meets or exceeds the long-path limit.
// A non-positive limit falls back to DefaultLongPathLimit.
func LongPath(path string, limit int) bool {
	if limit <= 0 {
		limit = DefaultLongPathLimit
	}

	return len(path) >= limit
}

// Walk traverses the tree rooted at rec.Path and aggregates regular-file
// count, folder count and total byte size. The root itself is not counted
// as a folder; symlinks and other irregular entries are skipped. A tree
// with zero files yields SizeBytes 0.
//
// With PolicySkipUnreadable, entries that cannot be read are absent from
// the counts. With PolicyAbortOnUnreadable, the first unreadable entry
// fails the whole walk. An unreachable root fails the walk under either
// policy.
func Walk(ctx context.Context, rec ShareRecord, policy ErrorPolicy) (ShareResult, error) {
	root := filepath.Clean(rec.Path)

	if info, err := os.Stat(root); err != nil {
		return ShareResult{}, errors.WrapIf(err, "sharestat: accessing share root")
	} else if !info.IsDir() {
		return ShareResult{}, errors.Errorf("sharestat: share root %q is not a directory", root)
	}

	var t tally

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if policy == PolicyAbortOnUnreadable {
				return err
			}

			log.WithError(err).WithField("path", path).Debug("skipping unreadable entry")

			return nil //nolint:nilerr // Unreadable entries are absent from the counts
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if path != root {
				t.addFolder()
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if policy == PolicyAbortOnUnreadable {
				return err
			}

			return nil //nolint:nilerr // Unreadable entries are absent from the counts
		}

		t.addFile(info.Size())

		return nil
	})
	if walkErr != nil {
		return ShareResult{}, errors.WrapIfWithDetails(walkErr, "sharestat: walking share", "path", root)
	}

	return ShareResult{
		Name:      rec.Name,
		Path:      rec.Path,
		SizeBytes: t.bytes,
		Files:     t.files,
		Folders:   t.folders,
	}, nil
}
