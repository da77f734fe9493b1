// Package format renders arbitrary values as short, bounded descriptive
// strings for logging.
//
// Values are classified into a closed set of shapes (labeled, tensor-like,
// sequence, mapping, general object, scalar) and each shape has its own
// renderer. Formatting is total: Value never panics, whatever the input.
package format
