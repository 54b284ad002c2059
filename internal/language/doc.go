// Package language normalizes user-supplied language selections into the
// engine's three-letter model codes, including the Chinese script variants
// the models split into.
package language
