// Package schema implements the versioned schema registry for tessera.
// It loads entity type definitions from a TOML file at startup and resolves
// extraction candidate keys to schema fields by exact or synonym match.
package schema

import "strings"

// FieldType identifies the semantic type a field's values are coerced to.
type FieldType string

// Valid field types.
const (
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypeDate    FieldType = "date"
	TypeBoolean FieldType = "boolean"
)

var fieldTypes = map[FieldType]bool{
	TypeText:    true,
	TypeNumber:  true,
	TypeDate:    true,
	TypeBoolean: true,
}

// FieldSpec defines a single schema field: its canonical name, semantic type,
// accepted synonym keys, and whether it participates in entity identity.
type FieldSpec struct {
	Name     string    `toml:"name" json:"name"`
	Type     FieldType `toml:"type" json:"type"`
	Synonyms []string  `toml:"synonyms" json:"synonyms,omitempty"`
	Identity bool      `toml:"identity" json:"identity,omitempty"`
}

// SchemaDefinition holds the ordered field specs for one entity type.
// Immutable once loaded for the process lifetime.
type SchemaDefinition struct {
	EntityType string      `toml:"entity_type" json:"entity_type"`
	Fields     []FieldSpec `toml:"fields" json:"fields"`

	byKey map[string]*FieldSpec
}

// Field returns the spec for a canonical field name, or nil if the schema
// does not define it.
func (d *SchemaDefinition) Field(name string) *FieldSpec {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i]
		}
	}
	return nil
}

// IdentityFields returns the names of fields marked as identity, in schema order.
func (d *SchemaDefinition) IdentityFields() []string {
	var names []string
	for _, f := range d.Fields {
		if f.Identity {
			names = append(names, f.Name)
		}
	}
	return names
}

// NormalizeKey canonicalizes a candidate key for matching: lowercased,
// trimmed, with runs of whitespace collapsed to a single space. No other
// transformation is applied; anything beyond this is a synonym-table concern.
func NormalizeKey(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), " ")
}

// index builds the lookup table lazily. Field names always win over synonyms,
// and a synonym claimed by more than one field resolves to nothing at all:
// ambiguity routes to unmatched, never to a guess.
func (d *SchemaDefinition) index() map[string]*FieldSpec {
	if d.byKey != nil {
		return d.byKey
	}

	byKey := make(map[string]*FieldSpec)
	names := make(map[string]bool)

	for i := range d.Fields {
		f := &d.Fields[i]
		key := NormalizeKey(f.Name)
		byKey[key] = f
		names[key] = true
	}

	for i := range d.Fields {
		f := &d.Fields[i]
		for _, syn := range f.Synonyms {
			key := NormalizeKey(syn)
			if names[key] {
				continue
			}
			if existing, ok := byKey[key]; ok && existing != f {
				byKey[key] = nil
				continue
			}
			byKey[key] = f
		}
	}

	d.byKey = byKey
	return d.byKey
}
