// Package config loads and validates vobscribe's TOML configuration.
//
// Configuration covers the recognition surface (binarization threshold,
// border, DPI, language, tessdata directory, blacklist, raw engine
// variables, worker count), the OCR result cache, and logging. Values are
// defaulted, tilde-expanded, and validated here; command-line flags may
// override individual fields after loading.
package config
