package instrument

import (
	"time"

	"github.com/jonwraymond/callwatch/calltrace"
)

// Outcome tags a CompletionRecord as success or failure.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

// CompletionRecord is the immutable outcome summary built at the end of an
// invocation and consumed immediately by the log-writing step.
type CompletionRecord struct {
	Outcome   Outcome
	Result    string // formatted result, success only
	Message   string // error or panic message, failure only
	Traceback string // goroutine stack at completion, failure only
	Duration  time.Duration
	Nested    []calltrace.Entry
}

func successRecord(result string, d time.Duration, nested []calltrace.Entry) CompletionRecord {
	return CompletionRecord{
		Outcome:  OutcomeSuccess,
		Result:   result,
		Duration: d,
		Nested:   nested,
	}
}

func failureRecord(message, traceback string, d time.Duration, nested []calltrace.Entry) CompletionRecord {
	return CompletionRecord{
		Outcome:   OutcomeFailure,
		Message:   message,
		Traceback: traceback,
		Duration:  d,
		Nested:    nested,
	}
}
