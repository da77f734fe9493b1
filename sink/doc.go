// Package sink appends rendered log line batches to one or more files.
//
// Every target receives an identical copy of the batch in a single append,
// guarded by an advisory file lock so concurrent writers never interleave
// partial lines. Targets are independent: one failing does not stop the
// others. Lines may additionally be echoed to a console writer.
package sink
