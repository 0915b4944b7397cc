package evaluations

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrKPINotFound indicates that the requested KPI does not exist.
var ErrKPINotFound = errors.New("evaluations: kpi not found")

// ErrDuplicateKPI indicates the KPI name is already taken.
var ErrDuplicateKPI = errors.New("evaluations: kpi name already exists")

// ErrSummaryNotFound indicates no summary has been calculated yet.
var ErrSummaryNotFound = errors.New("evaluations: summary not found")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const kpiColumns = `id, name, description, weight, created_at, updated_at, created_by, updated_by`

func scanKPI(row pgx.Row) (KPI, error) {
	var k KPI
	err := row.Scan(&k.ID, &k.Name, &k.Description, &k.Weight, &k.CreatedAt, &k.UpdatedAt, &k.CreatedBy, &k.UpdatedBy)
	return k, err
}

// ListKPIs returns all KPIs ordered by name.
func (r *Repository) ListKPIs(ctx context.Context) ([]KPI, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+kpiColumns+` FROM kpis ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var kpis []KPI
	for rows.Next() {
		k, err := scanKPI(rows)
		if err != nil {
			return nil, err
		}
		kpis = append(kpis, k)
	}
	return kpis, rows.Err()
}

// CreateKPI inserts a new KPI.
func (r *Repository) CreateKPI(ctx context.Context, k KPI, actorID string) (KPI, error) {
	created, err := scanKPI(r.pool.QueryRow(ctx,
		`INSERT INTO kpis (id, name, description, weight, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($5, ''))
		 RETURNING `+kpiColumns,
		k.ID, k.Name, k.Description, k.Weight, actorID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return KPI{}, ErrDuplicateKPI
		}
		return KPI{}, err
	}
	return created, nil
}

// UpdateKPI updates an existing KPI.
func (r *Repository) UpdateKPI(ctx context.Context, k KPI, actorID string) (KPI, error) {
	updated, err := scanKPI(r.pool.QueryRow(ctx,
		`UPDATE kpis SET name = $2, description = $3, weight = $4, updated_by = NULLIF($5, ''), updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+kpiColumns,
		k.ID, k.Name, k.Description, k.Weight, actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return KPI{}, ErrKPINotFound
		}
		return KPI{}, err
	}
	return updated, nil
}

// DeleteKPI removes a KPI by ID.
func (r *Repository) DeleteKPI(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kpis WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrKPINotFound
	}
	return nil
}

// UpsertScore records a KPI value for a user/period, replacing any prior
// value for the same KPI.
func (r *Repository) UpsertScore(ctx context.Context, s Score, actorID string) (Score, error) {
	var out Score
	err := r.pool.QueryRow(ctx,
		`INSERT INTO kpi_scores (id, user_id, kpi_id, period, value, note, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($7, ''))
		 ON CONFLICT (user_id, kpi_id, period)
		 DO UPDATE SET value = EXCLUDED.value, note = EXCLUDED.note, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		 RETURNING id, user_id, kpi_id, period, value, note, created_at, updated_at, created_by, updated_by`,
		s.ID, s.UserID, s.KPIID, s.Period, s.Value, s.Note, actorID).
		Scan(&out.ID, &out.UserID, &out.KPIID, &out.Period, &out.Value, &out.Note,
			&out.CreatedAt, &out.UpdatedAt, &out.CreatedBy, &out.UpdatedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Score{}, ErrKPINotFound
		}
		return Score{}, err
	}
	return out, nil
}

// ScoredKPIs returns every scored KPI for a user/period with its weight.
func (r *Repository) ScoredKPIs(ctx context.Context, userID, period string) ([]ScoredKPI, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT k.id, k.name, k.weight, s.value
		 FROM kpi_scores s
		 JOIN kpis k ON k.id = s.kpi_id
		 WHERE s.user_id = $1 AND s.period = $2
		 ORDER BY k.name`, userID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var scored []ScoredKPI
	for rows.Next() {
		var s ScoredKPI
		if err := rows.Scan(&s.KPIID, &s.Name, &s.Weight, &s.Value); err != nil {
			return nil, err
		}
		scored = append(scored, s)
	}
	return scored, rows.Err()
}

// SaveSummary stores a calculated summary, replacing any prior one for
// the same user/period.
func (r *Repository) SaveSummary(ctx context.Context, s Summary) error {
	detail, err := json.Marshal(s.Scores)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO evaluation_summaries (user_id, period, overall, detail, calculated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, period)
		 DO UPDATE SET overall = EXCLUDED.overall, detail = EXCLUDED.detail, calculated_at = EXCLUDED.calculated_at`,
		s.UserID, s.Period, s.Overall, detail, s.CalculatedAt)
	return err
}

// GetSummary fetches the stored summary for a user/period.
func (r *Repository) GetSummary(ctx context.Context, userID, period string) (Summary, error) {
	var s Summary
	var detail []byte
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, period, overall, detail, calculated_at
		 FROM evaluation_summaries WHERE user_id = $1 AND period = $2`,
		userID, period).
		Scan(&s.UserID, &s.Period, &s.Overall, &detail, &s.CalculatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Summary{}, ErrSummaryNotFound
		}
		return Summary{}, err
	}
	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &s.Scores); err != nil {
			return Summary{}, err
		}
	}
	return s, nil
}
