// Package instrument wraps callables so every invocation is logged with its
// full call context: caller identity, stack lineage, formatted arguments,
// nested calls observed during execution, result or failure, and elapsed
// duration.
//
// Each invocation is persisted to two date-partitioned files — a global log
// shared by all instrumented callables and a per-callable log — via the sink
// package. Wrapped callables keep their external contract: inputs, outputs,
// errors and panics pass through unchanged.
package instrument
