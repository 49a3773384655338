package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mosaic-works/tessera/internal/prompts"
	"github.com/mosaic-works/tessera/internal/schema"
)

// ComposePrompt builds a system prompt by combining tunable instructions,
// the immutable response specification, and the registry's entity type
// catalog for a given extraction stage. The catalog names the entity
// types the model may emit and the fields each carries; it never asks
// the model to validate or coerce values, which stays deterministic
// code downstream.
func ComposePrompt(
	ctx context.Context,
	ps prompts.System,
	stage prompts.Stage,
	registry *schema.Registry,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\nKnown entity types:\n")

	for _, entityType := range registry.EntityTypes() {
		def, err := registry.Get(entityType)
		if err != nil {
			return "", fmt.Errorf("load schema for %s: %w", entityType, err)
		}

		fields := make([]string, len(def.Fields))
		for i, field := range def.Fields {
			fields[i] = fmt.Sprintf("%s (%s)", field.Name, field.Type)
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", def.EntityType, strings.Join(fields, ", ")))
	}

	return sb.String(), nil
}
