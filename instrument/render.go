package instrument

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/callwatch/calltrace"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

var banner = strings.Repeat("=", 100)

func entryLines(cc CallContext) []string {
	args := "None"
	if len(cc.Args) > 0 {
		args = "[" + strings.Join(cc.Args, ", ") + "]"
	}
	kwargs := "None"
	if len(cc.KWArgs) > 0 {
		parts := make([]string, len(cc.KWArgs))
		for i, kw := range cc.KWArgs {
			parts[i] = "'" + kw.Name + "': " + kw.Value
		}
		kwargs = "{" + strings.Join(parts, ", ") + "}"
	}
	return []string{
		"",
		banner,
		"[TIMESTAMP] " + cc.Timestamp.Format(timestampLayout),
		"[INVOCATION] " + cc.InvocationID,
		"[CALL STACK] " + cc.CallStack,
		"[FUNCTION] " + cc.TargetFile + "::" + cc.TargetName,
		"[CALLER] " + cc.CallerFile + "::" + cc.CallerName,
		"[ARGS] " + args,
		"[KWARGS] " + kwargs,
		"[START] Function execution started",
	}
}

func completionLines(cc CallContext, rec CompletionRecord) []string {
	lines := []string{"", "[NESTED CALLS]"}
	for _, e := range rec.Nested {
		lines = append(lines, renderNested(e))
	}
	lines = append(lines, "")

	if rec.Outcome == OutcomeSuccess {
		lines = append(lines, "[RESULT] "+rec.Result)
	} else {
		lines = append(lines, "[ERROR] Exception in "+cc.TargetName+": "+rec.Message)
		lines = append(lines, "[TRACEBACK]")
		lines = append(lines, strings.Split(strings.TrimRight(rec.Traceback, "\n"), "\n")...)
	}

	lines = append(lines,
		fmt.Sprintf("[DURATION] %.4f seconds", rec.Duration.Seconds()),
		"[INVOCATION] "+cc.InvocationID,
	)
	if rec.Outcome == OutcomeSuccess {
		lines = append(lines, "[END] Function execution completed successfully")
	} else {
		lines = append(lines, "[END] Function execution failed")
	}
	return append(lines, banner, "")
}

func renderNested(e calltrace.Entry) string {
	if e.Err != "" {
		return fmt.Sprintf("  %s (%s) args=%s", e.Func, e.File, e.Err)
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.Name + ": " + a.Value
	}
	return fmt.Sprintf("  %s (%s) args={%s}", e.Func, e.File, strings.Join(parts, ", "))
}
