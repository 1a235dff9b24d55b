// package tasks implements playlist analysis and creation operations.
//
// The core abstraction is AnalysisEngine, which orchestrates the fetch,
// pagination, and year-bucketing pipeline, plus playlist creation from a
// year selection. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks
