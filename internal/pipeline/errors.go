// Package pipeline implements the extraction pipeline for tessera.
// It provides the types, prompt composition, and state graph
// (init → extract | render → vision → collect) that turn a registered
// source into a list of candidate entity blocks for interpretation.
package pipeline

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrSourceNotFound   = errors.New("source not found")
	ErrRenderFailed     = errors.New("failed to render page images")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrMalformedOutput  = errors.New("extraction output did not match the response spec")
)
