package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/mosaic-works/tessera/internal/prompts"
	"github.com/mosaic-works/tessera/pkg/formatting"
)

// VisionNode returns a state node that performs parallel page-by-page
// extraction using bounded errgroup concurrency. Each goroutine creates
// its own agent, encodes the page image to a data URI, and sends it to
// the vision model. Pages are extracted independently; candidate blocks
// from all pages are merged in page order by the collect node.
func VisionNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pagesVal, ok := s.Get(KeyPages)
		if !ok {
			return s, fmt.Errorf("vision: %w: missing %s in state", ErrExtractionFailed, KeyPages)
		}

		pages, ok := pagesVal.([]ExtractionPage)
		if !ok {
			return s, fmt.Errorf("vision: %w: %s is not []ExtractionPage", ErrExtractionFailed, KeyPages)
		}

		if err := extractPages(ctx, rt, pages); err != nil {
			return s, fmt.Errorf("vision: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "vision node complete",
			"page_count", len(pages),
		)

		s = s.Set(KeyPages, pages)
		return s, nil
	})
}

func extractPages(ctx context.Context, rt *Runtime, pages []ExtractionPage) error {
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageVision, rt.Registry)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(pages)))

	for i := range pages {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			a, err := agent.New(&rt.Agent)
			if err != nil {
				return fmt.Errorf("page %d: create agent: %w", i+1, err)
			}

			dataURI, err := encodePageImage(pages[i].ImagePath)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}

			resp, err := a.Vision(gctx, prompt, []string{dataURI})
			if err != nil {
				return fmt.Errorf("page %d: vision call: %w", i+1, err)
			}

			parsed, err := formatting.Parse[extractionResponse](resp.Content())
			if err != nil {
				return fmt.Errorf("page %d: %w: %w", i+1, ErrMalformedOutput, err)
			}

			pages[i].Candidates = parsed.Entities
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	return nil
}

func encodePageImage(imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	dataURI, err := encoding.EncodeImageDataURI(data, document.PNG)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	return dataURI, nil
}
