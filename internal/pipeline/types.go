package pipeline

import (
	"time"

	"github.com/google/uuid"
)

const (
	KeySourceID   = "source_id"
	KeyTempDir    = "temp_dir"
	KeySourceName = "source_name"
	KeyText       = "text"
	KeyPages      = "pages"
	KeyCandidates = "candidates"
)

// EntityCandidate is one entity block from the extraction model:
// a guessed entity type plus raw key/value pairs as written in the
// source. Keys and values are unvalidated model output; mapping
// against the schema happens downstream.
type EntityCandidate struct {
	EntityType string         `json:"entity_type"`
	Fields     map[string]any `json:"fields"`
}

// ExtractionPage holds per-page data during vision extraction.
// ImagePath references the rendered page image in a temp directory.
type ExtractionPage struct {
	PageNumber int               `json:"page_number"`
	ImagePath  string            `json:"image_path"`
	Candidates []EntityCandidate `json:"candidates"`
}

// Result is the final output from one pipeline execution.
type Result struct {
	SourceID    uuid.UUID         `json:"source_id"`
	SourceName  string            `json:"source_name"`
	PageCount   int               `json:"page_count"`
	Candidates  []EntityCandidate `json:"candidates"`
	CompletedAt time.Time         `json:"completed_at"`
}
