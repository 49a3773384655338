package sources

import (
	"net/url"

	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "sources", "s").
	Project("id", "ID").
	Project("name", "Name").
	Project("media_type", "MediaType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("registered_at", "RegisteredAt")

var defaultSort = query.SortField{
	Field:      "RegisteredAt",
	Descending: true,
}

// Filters contains optional filtering criteria for source queries.
// Nil fields are ignored. MediaType uses exact matching; Name uses
// case-insensitive contains matching.
type Filters struct {
	Name      *string `json:"name,omitempty"`
	MediaType *string `json:"media_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("MediaType", f.MediaType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if mt := values.Get("media_type"); mt != "" {
		f.MediaType = &mt
	}

	return f
}

func scanSource(s repository.Scanner) (Source, error) {
	var src Source
	err := s.Scan(
		&src.ID,
		&src.Name,
		&src.MediaType,
		&src.SizeBytes,
		&src.PageCount,
		&src.StorageKey,
		&src.RegisteredAt,
	)
	return src, err
}
