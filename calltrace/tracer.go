package calltrace

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jonwraymond/callwatch/format"
)

// KV is one named argument reported at function entry. Values are formatted
// inside the probe so rendering cost is only paid while a window is armed.
type KV struct {
	Name  string
	Value any
}

// Arg is a formatted argument inside an Entry.
type Arg struct {
	Name  string
	Value string
}

// Entry records one observed nested function entry: its name, originating
// file, and the arguments snapshotted at the moment of entry (before the
// body runs). Err is set instead of Args when inspection failed.
type Entry struct {
	Func string
	File string
	Args []Arg
	Err  string
}

// Tracer is an armable nested-call collector.
//
// Contract:
// - Concurrency: safe for concurrent use; entries accrue strictly between
//   the outermost Arm and its matching Disarm.
// - Errors: the probe never panics; a failed inspection yields a placeholder
//   Entry.
type Tracer struct {
	armed   atomic.Bool
	mu      sync.Mutex
	depth   int
	entries []Entry
}

var global = &Tracer{}

// Default returns the process-wide tracer used by package-level Arm, Disarm
// and Enter.
func Default() *Tracer { return global }

// Arm opens a trace window. Reentrant arms share the outer window: only the
// 0->1 transition installs a fresh buffer.
func (t *Tracer) Arm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.depth++
	if t.depth == 1 {
		t.entries = nil
		t.armed.Store(true)
	}
}

// Disarm closes one level of the window. Only the outermost Disarm drains
// and returns the accumulated entries; inner and unmatched Disarms return
// nil. State is cleared on drain, so a subsequent window starts empty.
func (t *Tracer) Disarm() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.depth == 0 {
		return nil
	}
	t.depth--
	if t.depth > 0 {
		return nil
	}
	t.armed.Store(false)
	drained := t.entries
	t.entries = nil
	return drained
}

// Armed reports whether a trace window is currently open.
func (t *Tracer) Armed() bool { return t.armed.Load() }

// Enter reports the calling function's entry to an armed window. The
// function name and source file are resolved from the caller's frame; args
// are snapshotted and formatted immediately. No-op while disarmed.
func (t *Tracer) Enter(args ...KV) {
	if !t.armed.Load() {
		return
	}
	name, file := "unknown", "unknown"
	if pc, f, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			name = FuncName(fn.Name())
		}
		file = filepath.Base(f)
	}
	t.record(name, file, args)
}

// EnterNamed reports an entry on behalf of a function whose identity the
// caller already resolved (used by wrappers, whose own frame would otherwise
// be reported).
func (t *Tracer) EnterNamed(name, file string, args ...KV) {
	if !t.armed.Load() {
		return
	}
	t.record(name, file, args)
}

func (t *Tracer) record(name, file string, args []KV) {
	// Implementation-reserved names stay out of the trace.
	if strings.HasPrefix(lastSegment(name), "_") {
		return
	}
	entry := Entry{Func: name, File: file}
	func() {
		defer func() {
			if r := recover(); r != nil {
				entry.Args = nil
				entry.Err = fmt.Sprintf("<error getting args: %v>", r)
			}
		}()
		for _, kv := range args {
			entry.Args = append(entry.Args, Arg{Name: kv.Name, Value: format.Value(kv.Value)})
		}
	}()

	t.mu.Lock()
	if t.depth > 0 {
		t.entries = append(t.entries, entry)
	}
	t.mu.Unlock()
}

// Arm opens a window on the process-wide tracer.
func Arm() { global.Arm() }

// Disarm closes a window on the process-wide tracer.
func Disarm() []Entry { return global.Disarm() }

// Enter reports the calling function's entry to the process-wide tracer.
func Enter(args ...KV) {
	if !global.armed.Load() {
		return
	}
	name, file := "unknown", "unknown"
	if pc, f, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			name = FuncName(fn.Name())
		}
		file = filepath.Base(f)
	}
	global.record(name, file, args)
}

// EnterNamed reports a pre-resolved entry to the process-wide tracer.
func EnterNamed(name, file string, args ...KV) { global.EnterNamed(name, file, args...) }

// FuncName reduces a runtime symbol like
// "github.com/org/repo/pkg.(*T).Method" to "(*T).Method". Type-parameter
// suffixes and method-value "-fm" markers are stripped.
func FuncName(symbol string) string {
	if i := strings.LastIndex(symbol, "/"); i >= 0 {
		symbol = symbol[i+1:]
	}
	if i := strings.Index(symbol, "."); i >= 0 {
		symbol = symbol[i+1:]
	}
	symbol = strings.TrimSuffix(symbol, "-fm")
	if i := strings.Index(symbol, "["); i >= 0 {
		if j := strings.LastIndex(symbol, "]"); j > i {
			symbol = symbol[:i] + symbol[j+1:]
		}
	}
	return symbol
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
