package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mosaic-works/tessera/internal/prompts"
	"github.com/mosaic-works/tessera/pkg/formatting"
)

type extractionResponse struct {
	Entities []EntityCandidate `json:"entities"`
}

// ExtractNode returns a state node that runs text extraction: one chat
// call over the full source text, parsed against the extract stage's
// response spec.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		textVal, ok := s.Get(KeyText)
		if !ok {
			return s, fmt.Errorf("extract: %w: missing %s in state", ErrExtractionFailed, KeyText)
		}

		text, ok := textVal.(string)
		if !ok {
			return s, fmt.Errorf("extract: %w: %s is not string", ErrExtractionFailed, KeyText)
		}

		prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageExtract, rt.Registry)
		if err != nil {
			return s, fmt.Errorf("extract: %w: %w", ErrExtractionFailed, err)
		}

		a, err := agent.New(&rt.Agent)
		if err != nil {
			return s, fmt.Errorf("extract: %w: create agent: %w", ErrExtractionFailed, err)
		}

		resp, err := a.Chat(ctx, prompt+"\n\nSource text:\n\n"+text)
		if err != nil {
			return s, fmt.Errorf("extract: %w: chat call: %w", ErrExtractionFailed, err)
		}

		parsed, err := formatting.Parse[extractionResponse](resp.Content())
		if err != nil {
			return s, fmt.Errorf("extract: %w: parse response: %w", ErrMalformedOutput, err)
		}

		rt.Logger.InfoContext(
			ctx, "extract node complete",
			"candidate_count", len(parsed.Entities),
		)

		s = s.Set(KeyCandidates, parsed.Entities)
		return s, nil
	})
}
