// Package calltrace collects nested function-entry records during an armed
// trace window.
//
// The collector is process-wide. Arm opens a window and Disarm drains it;
// arming is reference counted, so reentrant windows share the outermost
// buffer and only the final Disarm drains. Instrumented code reports entries
// through the Enter probe, which is a cheap no-op while no window is armed.
package calltrace
