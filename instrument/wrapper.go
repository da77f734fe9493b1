package instrument

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/callwatch/calltrace"
	"github.com/jonwraymond/callwatch/config"
	"github.com/jonwraymond/callwatch/format"
	"github.com/jonwraymond/callwatch/sink"
)

// Func is the canonical instrumented signature. Positional arguments are
// passed as-is; keyword arguments are passed as Named values.
type Func func(ctx context.Context, args ...any) (any, error)

// Named marks an argument as a keyword argument for logging purposes.
type Named struct {
	Name  string
	Value any
}

// Wrapper instruments callables with entry/completion logging, nested-call
// tracing, and a local span per invocation.
//
// Contract:
//   - Concurrency: Wrap returns a thread-safe Func; concurrent invocations
//     share one trace window (see calltrace).
//   - Errors: errors and panics from the wrapped function propagate
//     unchanged. Log-write failures are fatal to the invocation.
//   - Ownership: arguments and results are passed through unmodified.
type Wrapper struct {
	cfg    config.Config
	sink   *sink.Sink
	tracer trace.Tracer
	clock  func() time.Time
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithConfig sets the log directory and file-naming configuration.
func WithConfig(cfg config.Config) Option {
	return func(w *Wrapper) { w.cfg = cfg }
}

// WithSink overrides the log sink.
func WithSink(s *sink.Sink) Option {
	return func(w *Wrapper) { w.sink = s }
}

// WithTracer emits a span per invocation through the given tracer. The
// default is a no-op tracer.
func WithTracer(t trace.Tracer) Option {
	return func(w *Wrapper) { w.tracer = t }
}

// WithClock overrides the timestamp source. Durations always use the wall
// clock.
func WithClock(now func() time.Time) Option {
	return func(w *Wrapper) { w.clock = now }
}

// New creates a Wrapper with the given options.
func New(opts ...Option) (*Wrapper, error) {
	w := &Wrapper{
		cfg:   config.Default(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.cfg.Validate(); err != nil {
		return nil, err
	}
	if w.tracer == nil {
		w.tracer = noop.NewTracerProvider().Tracer("callwatch")
	}
	if w.sink == nil {
		var console io.Writer
		if w.cfg.Console {
			console = os.Stdout
		}
		w.sink = sink.New(console)
	}
	return w, nil
}

// Wrap returns a Func with the same contract as fn plus the logging side
// effects.
func (w *Wrapper) Wrap(fn Func) Func {
	if fn == nil {
		return func(context.Context, ...any) (any, error) { return nil, ErrNilFunc }
	}
	name, file := funcIdentity(fn)
	return w.wrapNamed(name, file, fn)
}

func (w *Wrapper) wrapNamed(name, file string, fn Func) Func {
	return func(ctx context.Context, args ...any) (any, error) {
		return w.invoke(ctx, name, file, fn, args)
	}
}

func (w *Wrapper) invoke(ctx context.Context, name, file string, fn Func, args []any) (any, error) {
	cc := w.newContext(name, file, args)
	paths := []string{
		w.cfg.GlobalPath(cc.Timestamp),
		w.cfg.CallablePath(name, cc.Timestamp),
	}
	if err := w.sink.Append(paths, entryLines(cc)); err != nil {
		return nil, fmt.Errorf("instrument: entry log: %w", err)
	}

	ctx, span := w.tracer.Start(ctx, "call."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("call.function", name),
			attribute.String("call.file", file),
			attribute.String("call.invocation_id", cc.InvocationID),
		),
	)

	// If an outer instrumented invocation is armed, this call is one of its
	// nested calls.
	calltrace.EnterNamed(name, file, namedKVs(args)...)
	calltrace.Arm()

	start := time.Now()
	var nested []calltrace.Entry
	disarmed := false
	disarm := func() {
		// Exactly once per invocation, on every exit path.
		if !disarmed {
			disarmed = true
			nested = calltrace.Disarm()
		}
	}

	defer func() {
		if r := recover(); r != nil {
			disarm()
			rec := failureRecord(fmt.Sprintf("%v", r), string(debug.Stack()), time.Since(start), nested)
			span.SetStatus(codes.Error, rec.Message)
			span.End()
			_ = w.sink.Append(paths, completionLines(cc, rec))
			panic(r)
		}
	}()

	result, err := fn(ctx, args...)
	disarm()
	elapsed := time.Since(start)

	if err != nil {
		rec := failureRecord(err.Error(), string(debug.Stack()), elapsed, nested)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		// The target's failure always wins over a log-write failure; the
		// caller must observe the original error unchanged.
		_ = w.sink.Append(paths, completionLines(cc, rec))
		return result, err
	}

	rec := successRecord(format.Value(result), elapsed, nested)
	span.SetStatus(codes.Ok, "")
	span.End()
	if werr := w.sink.Append(paths, completionLines(cc, rec)); werr != nil {
		return nil, fmt.Errorf("instrument: completion log: %w", werr)
	}
	return result, nil
}

func namedKVs(args []any) []calltrace.KV {
	kvs := make([]calltrace.KV, 0, len(args))
	for i, a := range args {
		if n, ok := a.(Named); ok {
			kvs = append(kvs, calltrace.KV{Name: n.Name, Value: n.Value})
		} else {
			kvs = append(kvs, calltrace.KV{Name: fmt.Sprintf("arg%d", i), Value: a})
		}
	}
	return kvs
}

func funcIdentity(fn any) (name, file string) {
	name, file = "unknown", "unknown"
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return name, file
	}
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return name, file
	}
	fullFile, _ := f.FileLine(f.Entry())
	return calltrace.FuncName(f.Name()), filepath.Base(fullFile)
}
