// Package sources implements the source domain for tessera.
// A source is the raw input material an interpretation runs against: an
// uploaded file (stored as a blob) or a registered text snippet. Sources are
// referenced by id from interpretations, observations, and raw fragments,
// and are never mutated after registration.
package sources

import (
	"time"

	"github.com/google/uuid"
)

// Source represents registered source material with its blob storage reference.
type Source struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	MediaType    string    `json:"media_type"`
	SizeBytes    int64     `json:"size_bytes"`
	PageCount    *int      `json:"page_count"`
	StorageKey   string    `json:"storage_key"`
	RegisteredAt time.Time `json:"registered_at"`
}

// IsPDF reports whether the source content is a PDF document.
func (s *Source) IsPDF() bool {
	return s.MediaType == "application/pdf"
}

// CreateCommand carries the data needed to register a new source.
// Data holds the raw bytes. PageCount is optional and is extracted by the
// handler via pdfcpu for PDF uploads; nil values are stored as NULL.
type CreateCommand struct {
	Data      []byte
	Name      string
	MediaType string
	PageCount *int
}

// RegisterTextCommand carries the data for registering an inline text source.
type RegisterTextCommand struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Content is downloaded source material handed to the interpretation pipeline.
type Content struct {
	Source *Source
	Data   []byte
}
