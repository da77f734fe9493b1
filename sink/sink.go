package sink

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
)

// Sink is a durable, multi-target append-only line writer.
//
// Contract:
// - Concurrency: safe for concurrent use; each Append is a single
//   non-interleaved write per target.
// - Errors: per-target failures are independent; Append reports them joined,
//   wrapped in ErrAllTargetsFailed when every target failed.
// - Ownership: line slices are read, never retained.
type Sink struct {
	console io.Writer
	mu      sync.Mutex // serializes console echo across invocations
}

// New creates a Sink. console may be nil to disable live echo.
func New(console io.Writer) *Sink {
	return &Sink{console: console}
}

// Append writes lines, each followed by a newline, to every target path.
// Parent directories are created on demand. The batch is also echoed once to
// the console writer. All file writes are flushed before return.
func (s *Sink) Append(paths []string, lines []string) error {
	if len(paths) == 0 {
		return ErrNoTargets
	}

	batch := renderBatch(lines)

	if s.console != nil {
		s.mu.Lock()
		_, _ = s.console.Write(batch)
		s.mu.Unlock()
	}

	errs := make([]error, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			errs[i] = appendFile(path, batch)
			return nil
		})
	}
	_ = g.Wait()

	failures := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	joined := errors.Join(failures...)
	if len(failures) == len(paths) {
		return fmt.Errorf("%w: %w", ErrAllTargetsFailed, joined)
	}
	return joined
}

func renderBatch(lines []string) []byte {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// appendFile performs one locked, flushed append of the whole batch.
func appendFile(path string, batch []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("sink: ensure dir %s: %w", dir, err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("sink: lock %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("sink: open %s: %w", path, err)
	}
	if _, err := f.Write(batch); err != nil {
		_ = f.Close()
		return fmt.Errorf("sink: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sink: sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("sink: close %s: %w", path, err)
	}
	return nil
}
