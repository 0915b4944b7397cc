package evaluations

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/epes-hq/epes/jobs"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ErrInvalidPeriod indicates the period is not in YYYY-MM form.
var ErrInvalidPeriod = errors.New("evaluations: period must use the YYYY-MM form")

// ErrNoScores indicates a summary was requested before any score exists.
var ErrNoScores = errors.New("evaluations: no scores recorded for this period")

// RepositoryPort defines data access methods for evaluations.
type RepositoryPort interface {
	ListKPIs(ctx context.Context) ([]KPI, error)
	CreateKPI(ctx context.Context, k KPI, actorID string) (KPI, error)
	UpdateKPI(ctx context.Context, k KPI, actorID string) (KPI, error)
	DeleteKPI(ctx context.Context, id string) error
	UpsertScore(ctx context.Context, s Score, actorID string) (Score, error)
	ScoredKPIs(ctx context.Context, userID, period string) ([]ScoredKPI, error)
	SaveSummary(ctx context.Context, s Summary) error
	GetSummary(ctx context.Context, userID, period string) (Summary, error)
}

// Service handles KPI and score business logic.
type Service struct {
	repo  RepositoryPort
	queue *jobs.Client
	now   func() time.Time
}

// NewService builds Service instance. The queue may be nil when the
// server runs without a worker; recalculation then happens inline.
func NewService(repo RepositoryPort, queue *jobs.Client) *Service {
	return &Service{repo: repo, queue: queue, now: time.Now}
}

// ListKPIs returns all KPIs.
func (s *Service) ListKPIs(ctx context.Context) ([]KPI, error) {
	return s.repo.ListKPIs(ctx)
}

func normalizeKPI(k KPI) (KPI, error) {
	k.Name = strings.TrimSpace(k.Name)
	if k.Name == "" {
		return KPI{}, errors.New("evaluations: kpi name required")
	}
	if k.Weight <= 0 {
		return KPI{}, errors.New("evaluations: kpi weight must be positive")
	}
	return k, nil
}

// CreateKPI inserts a new KPI.
func (s *Service) CreateKPI(ctx context.Context, k KPI, actorID string) (KPI, error) {
	k, err := normalizeKPI(k)
	if err != nil {
		return KPI{}, err
	}
	k.ID = uuid.NewString()
	return s.repo.CreateKPI(ctx, k, actorID)
}

// UpdateKPI updates an existing KPI.
func (s *Service) UpdateKPI(ctx context.Context, k KPI, actorID string) (KPI, error) {
	id := k.ID
	k, err := normalizeKPI(k)
	if err != nil {
		return KPI{}, err
	}
	k.ID = id
	return s.repo.UpdateKPI(ctx, k, actorID)
}

// DeleteKPI removes a KPI by ID.
func (s *Service) DeleteKPI(ctx context.Context, id string) error {
	return s.repo.DeleteKPI(ctx, id)
}

// RecordScore stores one KPI measurement and queues a summary
// recalculation for the affected user and period.
func (s *Service) RecordScore(ctx context.Context, score Score, actorID string) (Score, error) {
	if score.UserID == "" || score.KPIID == "" {
		return Score{}, errors.New("evaluations: user and kpi ids required")
	}
	if !periodPattern.MatchString(score.Period) {
		return Score{}, ErrInvalidPeriod
	}
	if score.Value < 0 || score.Value > 100 {
		return Score{}, fmt.Errorf("evaluations: value %v outside the 0-100 range", score.Value)
	}
	score.ID = uuid.NewString()
	saved, err := s.repo.UpsertScore(ctx, score, actorID)
	if err != nil {
		return Score{}, err
	}

	if s.queue != nil {
		payload := jobs.EvaluationRecalcPayload{UserID: score.UserID, Period: score.Period}
		if _, err := s.queue.EnqueueEvaluationRecalc(ctx, payload); err != nil {
			return Score{}, fmt.Errorf("evaluations: enqueue recalc: %w", err)
		}
		return saved, nil
	}
	if _, err := s.Recalc(ctx, score.UserID, score.Period); err != nil {
		return Score{}, err
	}
	return saved, nil
}

// Recalc recomputes the weighted overall for a user/period and stores
// the summary. Overall is the weight-normalised mean of recorded values.
func (s *Service) Recalc(ctx context.Context, userID, period string) (float64, error) {
	scored, err := s.repo.ScoredKPIs(ctx, userID, period)
	if err != nil {
		return 0, err
	}
	if len(scored) == 0 {
		return 0, ErrNoScores
	}

	var weighted, totalWeight float64
	for _, sc := range scored {
		weighted += sc.Weight * sc.Value
		totalWeight += sc.Weight
	}
	overall := weighted / totalWeight

	summary := Summary{
		UserID:       userID,
		Period:       period,
		Overall:      overall,
		Scores:       scored,
		CalculatedAt: s.now(),
	}
	if err := s.repo.SaveSummary(ctx, summary); err != nil {
		return 0, err
	}
	return overall, nil
}

// Summary fetches the stored summary for a user/period.
func (s *Service) Summary(ctx context.Context, userID, period string) (Summary, error) {
	if userID == "" {
		return Summary{}, errors.New("evaluations: user id required")
	}
	if !periodPattern.MatchString(period) {
		return Summary{}, ErrInvalidPeriod
	}
	return s.repo.GetSummary(ctx, userID, period)
}
