package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"golang.org/x/sync/errgroup"
)

const sourcePDF = "source.pdf"

// InitNode returns a state node that loads the source record and its
// content. Text content goes directly into the state bag; PDF content is
// written to the temp directory for the render node.
func InitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sourceID, tempDir, err := extractInitState(s)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		content, err := rt.Sources.Content(ctx, sourceID)
		if err != nil {
			return s, fmt.Errorf("init: %w: %w", ErrSourceNotFound, err)
		}

		s = s.Set(KeySourceName, content.Source.Name)

		if content.Source.IsPDF() {
			pdfPath := filepath.Join(tempDir, sourcePDF)
			if err := os.WriteFile(pdfPath, content.Data, 0600); err != nil {
				return s, fmt.Errorf("init: %w: write temp pdf: %w", ErrRenderFailed, err)
			}
		} else {
			s = s.Set(KeyText, string(content.Data))
		}

		rt.Logger.InfoContext(
			ctx, "init node complete",
			"source_id", sourceID,
			"media_type", content.Source.MediaType,
			"size_bytes", content.Source.SizeBytes,
		)

		return s, nil
	})
}

func extractInitState(s state.State) (uuid.UUID, string, error) {
	idVal, ok := s.Get(KeySourceID)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("%w: missing %s in state", ErrSourceNotFound, KeySourceID)
	}

	sourceID, ok := idVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("%w: %s is not uuid.UUID", ErrSourceNotFound, KeySourceID)
	}

	tempDirVal, ok := s.Get(KeyTempDir)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("%w: missing %s in state", ErrRenderFailed, KeyTempDir)
	}

	tempDir, ok := tempDirVal.(string)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("%w: %s is not string", ErrRenderFailed, KeyTempDir)
	}

	return sourceID, tempDir, nil
}

// RenderNode returns a state node that renders every PDF page to a PNG
// image concurrently via ImageMagick and seeds the page list in the
// state bag.
func RenderNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		tempDirVal, ok := s.Get(KeyTempDir)
		if !ok {
			return s, fmt.Errorf("render: %w: missing %s in state", ErrRenderFailed, KeyTempDir)
		}

		tempDir, ok := tempDirVal.(string)
		if !ok {
			return s, fmt.Errorf("render: %w: %s is not string", ErrRenderFailed, KeyTempDir)
		}

		pages, err := renderPages(ctx, tempDir)
		if err != nil {
			return s, fmt.Errorf("render: %w", err)
		}

		rt.Logger.InfoContext(ctx, "render node complete", "page_count", len(pages))

		s = s.Set(KeyPages, pages)
		return s, nil
	})
}

func renderPages(ctx context.Context, tempDir string) ([]ExtractionPage, error) {
	pdfPath := filepath.Join(tempDir, sourcePDF)
	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", ErrRenderFailed, err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(config.DefaultImageConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: create renderer: %w", ErrRenderFailed, err)
	}

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("%w: extract pages: %w", ErrRenderFailed, err)
	}

	pageCount := len(allPages)
	pages := make([]ExtractionPage, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(pageCount))

	for i, page := range allPages {
		pageNum := i + 1
		imgPath := filepath.Join(tempDir, fmt.Sprintf("page-%d.png", pageNum))
		pages[i] = ExtractionPage{
			PageNumber: pageNum,
			ImagePath:  imgPath,
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", pageNum, err)
			}

			if err := os.WriteFile(imgPath, data, 0600); err != nil {
				return fmt.Errorf("write page %d image: %w", pageNum, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return pages, nil
}

func workerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
