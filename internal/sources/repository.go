package sources

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/pagination"
	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
	"github.com/mosaic-works/tessera/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a source repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "sources"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Source], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "MediaType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sources: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	srcs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSource)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}

	result := pagination.NewPageResult(srcs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Source, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSource)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Source, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrEmptyContent
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeName(cmd.Name))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.MediaType); err != nil {
		return nil, fmt.Errorf("upload source blob: %w", err)
	}

	q := `
		INSERT INTO sources(id, name, media_type, size_bytes, page_count, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, media_type, size_bytes, page_count, storage_key, registered_at`

	insertArgs := []any{
		id,
		cmd.Name,
		cmd.MediaType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
	}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Source, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanSource)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("source registered", "id", s.ID, "name", s.Name, "media_type", s.MediaType)
	return &s, nil
}

func (r *repo) RegisterText(ctx context.Context, cmd RegisterTextCommand) (*Source, error) {
	if cmd.Content == "" {
		return nil, ErrEmptyContent
	}

	name := cmd.Name
	if name == "" {
		name = "text"
	}

	return r.Create(ctx, CreateCommand{
		Data:      []byte(cmd.Content),
		Name:      name,
		MediaType: "text/plain",
	})
}

func (r *repo) Content(ctx context.Context, id uuid.UUID) (*Content, error) {
	s, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := r.storage.Download(ctx, s.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("download source blob %s: %w", s.StorageKey, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read source blob %s: %w", s.StorageKey, err)
	}

	return &Content{Source: s, Data: data}, nil
}

func buildStorageKey(id uuid.UUID, name string) string {
	return fmt.Sprintf("sources/%s/%s", id, name)
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "source"
	}
	return url.PathEscape(name)
}
