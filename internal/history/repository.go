package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Repository reads and prunes the action_history table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns one page of history entries, newest first, plus the total
// row count matching the filter.
func (r *Repository) List(ctx context.Context, f Filter) ([]Entry, int, error) {
	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.PerPage

	// Count and page fetch hit disjoint pool connections, run them together.
	var (
		total   int
		entries []Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.pool.QueryRow(gctx,
			`SELECT COUNT(*) FROM action_history
			 WHERE ($1 = '' OR entity = $1) AND ($2 = '' OR actor_id = $2)`,
			f.Entity, f.ActorID).Scan(&total)
	})
	g.Go(func() error {
		rows, err := r.pool.Query(gctx,
			`SELECT id, actor_id, action, entity, entity_id, meta, occurred_at
			 FROM action_history
			 WHERE ($1 = '' OR entity = $1) AND ($2 = '' OR actor_id = $2)
			 ORDER BY occurred_at DESC, id DESC
			 LIMIT $3 OFFSET $4`,
			f.Entity, f.ActorID, f.PerPage, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var e Entry
			var metaJSON []byte
			if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &metaJSON, &e.OccurredAt); err != nil {
				return err
			}
			if len(metaJSON) > 0 {
				if err := json.Unmarshal(metaJSON, &e.Meta); err != nil {
					return err
				}
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Prune deletes entries older than the cutoff and reports how many rows
// were removed.
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM action_history WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
