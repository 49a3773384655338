package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the extraction pipeline for a single source. It creates a
// temp directory for staged content (cleaned up via defer), builds the
// state graph (init → extract | render → vision → collect), executes it,
// and extracts the Result from the final state. Candidate order in the
// result is model emission order, page order first for vision sources.
func Execute(ctx context.Context, rt *Runtime, sourceID uuid.UUID) (*Result, error) {
	tempDir, err := os.MkdirTemp("", "tessera-extract-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeySourceID, sourceID)
	initialState = initialState.Set(KeyTempDir, tempDir)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("tessera-extract")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("init", InitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("extract", ExtractNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("render", RenderNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("vision", VisionNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("collect", CollectNode(rt)); err != nil {
		return nil, err
	}

	// init → extract (text sources)
	if err := graph.AddEdge("init", "extract", hasText); err != nil {
		return nil, err
	}

	// init → render (PDF sources)
	if err := graph.AddEdge("init", "render", state.Not(hasText)); err != nil {
		return nil, err
	}

	// render → vision (unconditional)
	if err := graph.AddEdge("render", "vision", nil); err != nil {
		return nil, err
	}

	// extract → collect (unconditional)
	if err := graph.AddEdge("extract", "collect", nil); err != nil {
		return nil, err
	}

	// vision → collect (unconditional)
	if err := graph.AddEdge("vision", "collect", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("init"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("collect"); err != nil {
		return nil, err
	}

	return graph, nil
}

// CollectNode returns a state node that merges per-page candidate lists
// into the final candidate list. Text extraction already produced a flat
// list, so the node passes it through untouched.
func CollectNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if _, ok := s.Get(KeyCandidates); ok {
			return s, nil
		}

		pagesVal, ok := s.Get(KeyPages)
		if !ok {
			return s, fmt.Errorf("collect: %w: no candidates and no pages in state", ErrExtractionFailed)
		}

		pages, ok := pagesVal.([]ExtractionPage)
		if !ok {
			return s, fmt.Errorf("collect: %w: %s is not []ExtractionPage", ErrExtractionFailed, KeyPages)
		}

		var candidates []EntityCandidate
		for _, page := range pages {
			candidates = append(candidates, page.Candidates...)
		}

		rt.Logger.InfoContext(
			ctx, "collect node complete",
			"page_count", len(pages),
			"candidate_count", len(candidates),
		)

		s = s.Set(KeyCandidates, candidates)
		return s, nil
	})
}

func extractResult(s state.State) (*Result, error) {
	idVal, ok := s.Get(KeySourceID)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeySourceID)
	}

	sourceID, ok := idVal.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("%s is not uuid.UUID", KeySourceID)
	}

	nameVal, ok := s.Get(KeySourceName)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeySourceName)
	}

	name, ok := nameVal.(string)
	if !ok {
		return nil, fmt.Errorf("%s is not string", KeySourceName)
	}

	candidatesVal, ok := s.Get(KeyCandidates)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyCandidates)
	}

	candidates, ok := candidatesVal.([]EntityCandidate)
	if !ok {
		return nil, fmt.Errorf("%s is not []EntityCandidate", KeyCandidates)
	}

	pageCount := 0
	if pagesVal, ok := s.Get(KeyPages); ok {
		if pages, ok := pagesVal.([]ExtractionPage); ok {
			pageCount = len(pages)
		}
	}

	return &Result{
		SourceID:    sourceID,
		SourceName:  name,
		PageCount:   pageCount,
		Candidates:  candidates,
		CompletedAt: time.Now(),
	}, nil
}

func hasText(s state.State) bool {
	_, ok := s.Get(KeyText)
	return ok
}
