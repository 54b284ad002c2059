// Package segment turns a palette-indexed subtitle event into cropped,
// bordered, binarized line images ready for recognition.
//
// The pipeline is deterministic: global palette to linear luminance, local
// slot visibility (pixel presence gated by alpha), ink classification by a
// normalized luminance threshold, per-row ink extents, contiguous row
// grouping, bounding regions, and finally one grayscale bitmap per region.
//
// The visibility and extent reductions are commutative-monoid folds
// (mergeSlots, mergeExtents), so chunked scans merged in any order give an
// identical result; the production scans are sequential per event.
// PrepareAll parallelizes across events while keeping output order tied to
// input order.
package segment
