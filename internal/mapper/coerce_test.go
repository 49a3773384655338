package mapper_test

import (
	"errors"
	"testing"

	"github.com/mosaic-works/tessera/internal/mapper"
	"github.com/mosaic-works/tessera/internal/schema"
)

func TestCoerceText(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
		err  bool
	}{
		{"plain string", "Ada Lovelace", "Ada Lovelace", false},
		{"trims whitespace", "  Ada  ", "Ada", false},
		{"number to string", 42.0, "42", false},
		{"bool to string", true, "true", false},
		{"empty", "", nil, true},
		{"whitespace only", "   ", nil, true},
		{"nested object", map[string]any{"a": 1}, nil, true},
		{"array", []any{"a"}, nil, true},
		{"nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapper.Coerce(schema.TypeText, tt.raw)
			if tt.err {
				if !errors.Is(err, mapper.ErrCoercion) {
					t.Errorf("Coerce(%v) error = %v, want ErrCoercion", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce(%v) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Coerce(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
		err  bool
	}{
		{"float", 3.14, 3.14, false},
		{"int", 7, 7, false},
		{"numeric string", "42", 42, false},
		{"currency string", "$1,250.00", 1250, false},
		{"padded string", "  19.5 ", 19.5, false},
		{"words", "twelve", 0, true},
		{"bool", true, 0, true},
		{"nil", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapper.Coerce(schema.TypeNumber, tt.raw)
			if tt.err {
				if !errors.Is(err, mapper.ErrCoercion) {
					t.Errorf("Coerce(%v) error = %v, want ErrCoercion", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce(%v) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Coerce(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
		err  bool
	}{
		{"iso", "2026-03-15", "2026-03-15", false},
		{"us slash", "03/15/2026", "2026-03-15", false},
		{"short slash", "3/5/2026", "2026-03-05", false},
		{"long form", "March 15, 2026", "2026-03-15", false},
		{"abbreviated", "Mar 15, 2026", "2026-03-15", false},
		{"rfc3339", "2026-03-15T10:30:00Z", "2026-03-15", false},
		{"relative", "next tuesday", "", true},
		{"number", 20260315, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapper.Coerce(schema.TypeDate, tt.raw)
			if tt.err {
				if !errors.Is(err, mapper.ErrCoercion) {
					t.Errorf("Coerce(%v) error = %v, want ErrCoercion", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce(%v) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Coerce(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceBoolean(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want bool
		err  bool
	}{
		{"bool true", true, true, false},
		{"string true", "true", true, false},
		{"string false", "False", false, false},
		{"string one", "1", true, false},
		{"yes", "yes", false, true},
		{"number", 1.0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapper.Coerce(schema.TypeBoolean, tt.raw)
			if tt.err {
				if !errors.Is(err, mapper.ErrCoercion) {
					t.Errorf("Coerce(%v) error = %v, want ErrCoercion", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Coerce(%v) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Coerce(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
