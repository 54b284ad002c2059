// Package pipeline runs the full conversion: decode a VobSub pair, segment
// every event into line images, recognize them through the worker pool, and
// aggregate ordered outcomes into SRT cues.
//
// Failed events are logged and excluded; the run still completes and the
// result records that a partial failure happened so the caller can exit
// non-zero without discarding good output.
package pipeline
