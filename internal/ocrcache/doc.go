// Package ocrcache persists recognized line text keyed by image digest and
// engine fingerprint, so repeated runs over the same disc skip the engine
// entirely.
//
// The store is SQLite-backed and guarded by a sidecar flock so two
// concurrent runs cannot race each other's writes.
package ocrcache
