package snapshots

import (
	"slices"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/internal/observations"
	"github.com/mosaic-works/tessera/internal/schema"
)

// Build folds an entity's observation history into a snapshot.
// Each field resolves independently to the value from the latest
// observation that carries it; observations never erase fields they
// omit. Only fields present in the active schema definition survive
// the fold: fields an earlier schema version accepted but the current
// one no longer defines are dropped silently, and a nil definition
// drops every field. The fold is deterministic: history is ordered by
// append sequence before folding, so the same history always yields
// the same snapshot.
//
// Build is pure and does not touch storage. Returns nil for an
// empty history.
func Build(entityID uuid.UUID, def *schema.SchemaDefinition, history []observations.Observation) *EntitySnapshot {
	if len(history) == 0 {
		return nil
	}

	ordered := slices.Clone(history)
	slices.SortFunc(ordered, func(a, b observations.Observation) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		default:
			return 0
		}
	})

	snap := &EntitySnapshot{
		EntityID:     entityID,
		EntityType:   ordered[0].EntityType,
		Fields:       make(map[string]any),
		Contributing: make(map[string]uuid.UUID),
		Version:      len(ordered),
	}

	for _, o := range ordered {
		for field, value := range o.Fields {
			if def == nil || def.Field(field) == nil {
				continue
			}
			snap.Fields[field] = value
			snap.Contributing[field] = o.ID
		}
	}

	winners := make(map[uuid.UUID]bool, len(snap.Contributing))
	for _, id := range snap.Contributing {
		winners[id] = true
	}
	for _, o := range ordered {
		if winners[o.ID] {
			snap.ContributingIDs = append(snap.ContributingIDs, o.ID)
			delete(winners, o.ID)
		}
	}

	return snap
}
