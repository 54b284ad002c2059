// Package ocr runs recognition over prepared line images with a fixed pool
// of workers, each owning at most one lazily constructed engine for its
// whole lifetime.
//
// The pool's contract is strict ordering: outcomes are positioned by input
// index regardless of completion order or worker count, and the images
// within one task are recognized strictly top to bottom. A failure on one
// image abandons the rest of that task only; an engine that cannot be
// constructed aborts the whole run, since no valid output is possible with
// that configuration.
//
// Before any worker starts, the native engine's internal thread count is
// capped process-wide so many engine instances do not oversubscribe the
// machine.
package ocr
