package query_test

import (
	"testing"

	"github.com/mosaic-works/tessera/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "sources", "s").
		Project("id", "id").
		Project("name", "name").
		Project("created_at", "createdAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMapTable(t *testing.T) {
	p := testProjection()
	if got, want := p.Table(), "public.sources s"; got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "s" {
		t.Errorf("Alias() = %q, want %q", got, "s")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	if got, want := p.Columns(), "s.id, s.name, s.created_at"; got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "name", "s.name"},
		{"mapped camel", "createdAt", "s.created_at"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "name",
			want:  []query.SortField{{Field: "name", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-createdAt",
			want:  []query.SortField{{Field: "createdAt", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "name,-createdAt",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " name , -createdAt ",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "name,,createdAt",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "createdAt", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("name", "invoice.pdf")
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.sources s WHERE s.name = $1"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "invoice.pdf" {
		t.Errorf("BuildCount() args = %v, want [invoice.pdf]", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "createdAt", Descending: true})
	b.WhereContains("name", ptr("report"))
	sql, args := b.BuildPage(3, 25)

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s WHERE s.name ILIKE $1 ORDER BY s.created_at DESC LIMIT 25 OFFSET 50"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%report%" {
		t.Errorf("BuildPage() args = %v, want [%%report%%]", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildSingle("id", "abc-123")

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s WHERE s.id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuilderBuildSingleOrNull(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("name", "invoice.pdf")
	sql, args := b.BuildSingleOrNull()

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s WHERE s.name = $1 LIMIT 1"
	if sql != wantSQL {
		t.Errorf("BuildSingleOrNull() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "invoice.pdf" {
		t.Errorf("BuildSingleOrNull() args = %v, want [invoice.pdf]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("name", nil)
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereEqualsNilPointerSkipped(t *testing.T) {
	var name *string

	b := query.NewBuilder(testProjection())
	b.WhereEquals("name", name)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContainsEmptySkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("name", ptr(""))
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereIn(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereIn("id", []any{"a", "b", "c"})
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s WHERE s.id IN ($1, $2, $3)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 3 {
		t.Errorf("args length = %d, want 3", len(args))
	}
}

func TestBuilderWhereNullable(t *testing.T) {
	t.Run("nil value generates IS NULL", func(t *testing.T) {
		b := query.NewBuilder(testProjection())
		b.WhereNullable("name", nil)
		sql, args := b.Build()

		wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s WHERE s.name IS NULL"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("non-nil value generates equals", func(t *testing.T) {
		b := query.NewBuilder(testProjection())
		b.WhereNullable("name", "invoice.pdf")
		sql, args := b.Build()

		wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s WHERE s.name = $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 || args[0] != "invoice.pdf" {
			t.Errorf("args = %v, want [invoice.pdf]", args)
		}
	})
}

func TestBuilderWhereSearch(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(ptr("test"), "name", "id")
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s WHERE (s.name ILIKE $1 OR s.id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%test%" || args[1] != "%test%" {
		t.Errorf("args = %v, want [%%test%% %%test%%]", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("name", "invoice.pdf")
	b.WhereContains("id", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s WHERE s.name = $1 AND s.id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "invoice.pdf" || args[1] != "%abc%" {
		t.Errorf("args = %v, want [invoice.pdf %%abc%%]", args)
	}
}

func TestBuilderOrderByFieldsOverridesDefault(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "id", Descending: false})
	b.OrderByFields([]query.SortField{
		{Field: "createdAt", Descending: true},
		{Field: "name", Descending: false},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s ORDER BY s.created_at DESC, s.name ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderDefaultSort(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "createdAt", Descending: true})
	sql, _ := b.Build()

	wantSQL := "SELECT s.id, s.name, s.created_at FROM public.sources s ORDER BY s.created_at DESC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}
