// Package mapper implements field mapping for extraction output: candidate
// key/value pairs are matched against the schema registry, coerced to their
// field's semantic type, and anything that cannot be matched or coerced is
// routed to quarantine instead of failing the run.
package mapper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mosaic-works/tessera/internal/schema"
)

// Pair is a candidate key/value that did not become an observation field.
type Pair struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Result partitions one entity block of extraction output.
// Fields holds coerced values keyed by canonical schema field name.
// Unmatched pairs had no schema match, Suspect pairs hit the placeholder
// denylist despite a name match, and Failed pairs matched but could not be
// coerced to the field's type.
type Result struct {
	Fields    map[string]any
	Unmatched []Pair
	Suspect   []Pair
	Failed    []Pair
}

// Mapper maps untyped candidate pairs onto schema fields.
type Mapper struct {
	registry *schema.Registry
	denylist map[string]bool
}

// New creates a Mapper over the given registry. Denylist entries are
// placeholder values (compared case-insensitively after trimming) that are
// quarantined as suspect even when their key matches a schema field.
func New(registry *schema.Registry, denylist []string) *Mapper {
	deny := make(map[string]bool, len(denylist))
	for _, entry := range denylist {
		deny[normalizeValue(entry)] = true
	}
	return &Mapper{
		registry: registry,
		denylist: deny,
	}
}

// Map partitions one extraction entity block against the entity type's
// schema. Candidate keys are processed in sorted order so the result is
// deterministic for any map iteration order. When two candidate keys resolve
// to the same field, the first (in sorted key order) wins and later pairs are
// routed to unmatched rather than guessed between.
// Returns schema.ErrSchemaNotFound for unknown entity types.
func (m *Mapper) Map(entityType string, candidates map[string]any) (*Result, error) {
	if _, err := m.registry.Get(entityType); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(candidates))
	for k := range candidates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := &Result{Fields: make(map[string]any)}

	for _, key := range keys {
		raw := candidates[key]

		spec, err := m.registry.Resolve(entityType, key)
		if err != nil {
			return nil, err
		}
		if spec == nil {
			result.Unmatched = append(result.Unmatched, Pair{Key: key, Value: raw})
			continue
		}

		if m.denied(raw) {
			result.Suspect = append(result.Suspect, Pair{Key: key, Value: raw})
			continue
		}

		if _, taken := result.Fields[spec.Name]; taken {
			result.Unmatched = append(result.Unmatched, Pair{Key: key, Value: raw})
			continue
		}

		coerced, err := Coerce(spec.Type, raw)
		if err != nil {
			result.Failed = append(result.Failed, Pair{Key: key, Value: raw})
			continue
		}

		result.Fields[spec.Name] = coerced
	}

	return result, nil
}

func (m *Mapper) denied(raw any) bool {
	s, ok := raw.(string)
	if !ok {
		return false
	}
	return m.denylist[normalizeValue(s)]
}

func normalizeValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// String renders a pair for logging.
func (p Pair) String() string {
	return fmt.Sprintf("%s=%v", p.Key, p.Value)
}
