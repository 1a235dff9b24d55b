// Package analysis holds the pure logic of the playlist year breakdown:
// identifier extraction, release-year parsing, year bucketing, the
// click-driven year selection state machine, and histogram bar layout.
//
// Nothing in this package performs I/O; every function is deterministic
// over its inputs. The fetch pipeline in internal/tasks feeds it and the
// render layers (server, ogimage, ui, formatter) consume it.
package analysis
