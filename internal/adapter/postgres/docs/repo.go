// Package docs implements the document store on PostgreSQL. Documents are
// schemaless jsonb rows keyed by (collection, id), mirroring the layout the
// mobile app writes through the hosted store.
package docs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/hcmus-forum/forumus-backend/internal/adapter/postgres"
	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	tx   *postgres.TxManager
}

// New creates a new document repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, tx: postgres.NewTxManager(pool)}
}

// GetByID returns one document. domain.ErrNotFound when it does not exist.
func (r *Repo) GetByID(ctx context.Context, collection, id string) (domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("data").
		From("documents").
		Where(squirrel.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return domain.Document{}, fmt.Errorf("build document select: %w", err)
	}

	var raw []byte
	if err := q.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return domain.Document{}, mapError(err, collection, id)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%s %s: %w", collection, id, err)
	}
	return domain.Document{ID: id, Fields: fields}, nil
}

// Query returns every document in a collection, ordered by id for stable
// iteration.
func (r *Repo) Query(ctx context.Context, collection string) ([]domain.Document, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Select("id", "data").
		From("documents").
		Where(squirrel.Eq{"collection": collection}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build collection select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query collection %s: %w", collection, err)
	}
	defer rows.Close()

	var out []domain.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan collection %s: %w", collection, err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", collection, id, err)
		}
		out = append(out, domain.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collection %s: %w", collection, err)
	}
	return out, nil
}

// Set writes a document, replacing any existing body.
func (r *Repo) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", collection, id, err)
	}

	sql, args, err := psql.Insert("documents").
		Columns("collection", "id", "data").
		Values(collection, id, raw).
		Suffix("ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build document upsert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return mapError(err, collection, id)
	}
	return nil
}

// Merge overlays fields onto an existing document. It reports false without
// error when the document does not exist, so writers racing against a
// deletion see a no-op instead of a resurrected row. The read and the write
// run in one transaction.
func (r *Repo) Merge(ctx context.Context, collection, id string, fields map[string]any) (bool, error) {
	patch, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("encode %s %s patch: %w", collection, id, err)
	}

	found := false
	err = r.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		var exists bool
		err := q.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE)`,
			collection, id,
		).Scan(&exists)
		if err != nil {
			return mapError(err, collection, id)
		}
		if !exists {
			return nil
		}

		_, err = q.Exec(ctx,
			`UPDATE documents SET data = data || $3::jsonb, updated_at = now()
			 WHERE collection = $1 AND id = $2`,
			collection, id, patch,
		)
		if err != nil {
			return mapError(err, collection, id)
		}
		found = true
		return nil
	})
	return found, err
}

// Delete removes a document. Deleting a missing document is not an error.
func (r *Repo) Delete(ctx context.Context, collection, id string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := psql.Delete("documents").
		Where(squirrel.Eq{"collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build document delete: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return mapError(err, collection, id)
	}
	return nil
}

func decodeFields(raw []byte) (map[string]any, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode document body: %w", err)
	}
	return fields, nil
}

// mapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass
// through for the caller to classify.
func mapError(err error, collection, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", collection, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", collection, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02", "23514": // invalid_text_representation, check_violation
			return fmt.Errorf("%s %s: %w", collection, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", collection, id, err)
}
