package schema

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed schemas.toml
var defaultSchemas []byte

// Registry is the process-wide schema registry: a versioned, immutable set of
// SchemaDefinitions keyed by entity type. It carries no mutable runtime state
// beyond registration at load time.
type Registry struct {
	version string
	schemas map[string]*SchemaDefinition
	ordered []string
}

type schemaFile struct {
	Version string             `toml:"version"`
	Schemas []SchemaDefinition `toml:"schemas"`
}

// Load reads a registry from the given TOML file. An empty path loads the
// embedded default definitions.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Parse(defaultSchemas)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	return r, nil
}

// Parse builds a registry from raw TOML schema definitions.
func Parse(data []byte) (*Registry, error) {
	var file schemaFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	if file.Version == "" {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidDefinition)
	}
	if len(file.Schemas) == 0 {
		return nil, fmt.Errorf("%w: no schemas defined", ErrInvalidDefinition)
	}

	r := &Registry{
		version: file.Version,
		schemas: make(map[string]*SchemaDefinition, len(file.Schemas)),
	}

	for i := range file.Schemas {
		def := &file.Schemas[i]
		if err := validateDefinition(def); err != nil {
			return nil, err
		}
		if _, exists := r.schemas[def.EntityType]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntityType, def.EntityType)
		}
		def.index()
		r.schemas[def.EntityType] = def
		r.ordered = append(r.ordered, def.EntityType)
	}

	return r, nil
}

// Version returns the schema version identifier declared in the definition file.
func (r *Registry) Version() string {
	return r.version
}

// EntityTypes returns all registered entity types in declaration order.
func (r *Registry) EntityTypes() []string {
	return r.ordered
}

// Get returns the definition for an entity type.
// Returns ErrSchemaNotFound for unknown types.
func (r *Registry) Get(entityType string) (*SchemaDefinition, error) {
	def, ok := r.schemas[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, entityType)
	}
	return def, nil
}

// Resolve matches a candidate key against an entity type's fields: exact
// case-insensitive whitespace-normalized name match first, then the synonym
// table. A miss returns (nil, nil); the caller routes the pair to unmatched.
func (r *Registry) Resolve(entityType, candidateKey string) (*FieldSpec, error) {
	def, err := r.Get(entityType)
	if err != nil {
		return nil, err
	}
	return def.index()[NormalizeKey(candidateKey)], nil
}

func validateDefinition(def *SchemaDefinition) error {
	if def.EntityType == "" {
		return fmt.Errorf("%w: schema missing entity_type", ErrInvalidDefinition)
	}
	if len(def.Fields) == 0 {
		return fmt.Errorf("%w: %s has no fields", ErrInvalidDefinition, def.EntityType)
	}

	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: %s has unnamed field", ErrInvalidDefinition, def.EntityType)
		}
		if !fieldTypes[f.Type] {
			return fmt.Errorf("%w: %s.%s has unknown type %q", ErrInvalidDefinition, def.EntityType, f.Name, f.Type)
		}
		key := NormalizeKey(f.Name)
		if seen[key] {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateField, def.EntityType, f.Name)
		}
		seen[key] = true
	}

	return nil
}
