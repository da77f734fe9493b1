package instrument

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/callwatch/calltrace"
	"github.com/jonwraymond/callwatch/format"
)

// KWArg is one formatted keyword argument, in declaration order.
type KWArg struct {
	Name  string
	Value string
}

// CallContext is the immutable snapshot taken at invocation entry.
type CallContext struct {
	Timestamp    time.Time
	InvocationID string
	TargetName   string
	TargetFile   string
	CallerName   string
	CallerFile   string
	CallStack    string
	Args         []string
	KWArgs       []KWArg
}

func (w *Wrapper) newContext(name, file string, args []any) CallContext {
	cc := CallContext{
		Timestamp:    w.clock(),
		InvocationID: uuid.NewString(),
		TargetName:   name,
		TargetFile:   file,
	}
	cc.CallStack, cc.CallerName, cc.CallerFile = captureStack()

	// A formatting failure degrades the whole argument set, never the call.
	func() {
		defer func() {
			if recover() != nil {
				cc.Args = []string{format.ArgsPlaceholder}
				cc.KWArgs = nil
			}
		}()
		positional := make([]any, 0, len(args))
		for _, a := range args {
			if n, ok := a.(Named); ok {
				cc.KWArgs = append(cc.KWArgs, KWArg{Name: n.Name, Value: format.Value(n.Value)})
			} else {
				positional = append(positional, a)
			}
		}
		cc.Args = format.Args(positional)
	}()
	return cc
}

const internalPkg = "github.com/jonwraymond/callwatch/instrument."

// captureStack renders the call stack as "file::func" frames, outermost
// first, and identifies the immediate caller. Wrapper-internal and runtime
// frames are dropped.
func captureStack() (stack, callerName, callerFile string) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	it := runtime.CallersFrames(pcs[:n])

	callerName, callerFile = "unknown", "unknown"
	var rendered []string
	for {
		fr, more := it.Next()
		if fr.Function != "" &&
			!strings.HasPrefix(fr.Function, internalPkg) &&
			!strings.HasPrefix(fr.Function, "runtime.") {
			name := calltrace.FuncName(fr.Function)
			file := filepath.Base(fr.File)
			if len(rendered) == 0 {
				callerName, callerFile = name, file
			}
			rendered = append(rendered, file+"::"+name)
		}
		if !more {
			break
		}
	}
	for i, j := 0, len(rendered)-1; i < j; i, j = i+1, j-1 {
		rendered[i], rendered[j] = rendered[j], rendered[i]
	}
	return strings.Join(rendered, " -> "), callerName, callerFile
}
