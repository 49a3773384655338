package entities

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/internal/schema"
)

// Resolution reports which entity an observation was linked to and whether
// the entity was created for it.
type Resolution struct {
	EntityID uuid.UUID
	Created  bool
}

// Resolver links mapped observation fields to an existing entity or signals
// that a new one should be created. Implementations run inside the
// interpretation persist transaction.
type Resolver interface {
	Resolve(
		ctx context.Context,
		tx *sql.Tx,
		def *schema.SchemaDefinition,
		fields map[string]any,
	) (*Resolution, error)
}

// FingerprintResolver is the default resolution policy: it hashes the
// normalized values of the schema's identity fields and matches on that
// fingerprint within the entity type. Observations with no identity field
// values always create a new entity.
type FingerprintResolver struct{}

// NewFingerprintResolver creates the default resolver.
func NewFingerprintResolver() *FingerprintResolver {
	return &FingerprintResolver{}
}

func (r *FingerprintResolver) Resolve(
	ctx context.Context,
	tx *sql.Tx,
	def *schema.SchemaDefinition,
	fields map[string]any,
) (*Resolution, error) {
	fp := Fingerprint(def, fields)

	if fp == nil {
		id := uuid.New()
		if _, err := tx.ExecContext(
			ctx,
			"INSERT INTO entities(id, entity_type) VALUES ($1, $2)",
			id, def.EntityType,
		); err != nil {
			return nil, fmt.Errorf("create entity: %w", err)
		}
		return &Resolution{EntityID: id, Created: true}, nil
	}

	// Insert-first so concurrent runs racing on the same fingerprint
	// never trip the unique index; whichever run loses the race falls
	// through to the select and links to the winner's entity.
	id := uuid.New()
	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO entities(id, entity_type, fingerprint) VALUES ($1, $2, $3)
		 ON CONFLICT (entity_type, fingerprint) WHERE fingerprint IS NOT NULL DO NOTHING`,
		id, def.EntityType, *fp,
	)
	if err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("create entity: %w", err)
	}
	if inserted == 1 {
		return &Resolution{EntityID: id, Created: true}, nil
	}

	var existing uuid.UUID
	err = tx.QueryRowContext(
		ctx,
		"SELECT id FROM entities WHERE entity_type = $1 AND fingerprint = $2",
		def.EntityType, *fp,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("lookup entity fingerprint: %w", err)
	}

	return &Resolution{EntityID: existing}, nil
}

// Fingerprint computes the identity hash for a field set under the given
// schema, or nil when none of the schema's identity fields carry a value.
// The hash covers the entity type and the sorted, normalized identity pairs
// so that re-extraction of equivalent values converges on one entity.
func Fingerprint(def *schema.SchemaDefinition, fields map[string]any) *string {
	identity := def.IdentityFields()

	var pairs []string
	for _, name := range identity {
		val, ok := fields[name]
		if !ok {
			continue
		}
		normalized := strings.ToLower(strings.TrimSpace(fmt.Sprint(val)))
		if normalized == "" {
			continue
		}
		pairs = append(pairs, name+"="+normalized)
	}

	if len(pairs) == 0 {
		return nil
	}

	sort.Strings(pairs)
	sum := sha256.Sum256([]byte(def.EntityType + "\x1f" + strings.Join(pairs, "\x1f")))
	fp := hex.EncodeToString(sum[:])
	return &fp
}
