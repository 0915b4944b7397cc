package evaluations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	scored    []ScoredKPI
	saved     []Summary
	scores    []Score
	summaries map[string]Summary
}

func (s *stubRepo) ListKPIs(context.Context) ([]KPI, error) { return nil, nil }
func (s *stubRepo) CreateKPI(_ context.Context, k KPI, _ string) (KPI, error) {
	return k, nil
}
func (s *stubRepo) UpdateKPI(_ context.Context, k KPI, _ string) (KPI, error) {
	return k, nil
}
func (s *stubRepo) DeleteKPI(context.Context, string) error { return nil }
func (s *stubRepo) UpsertScore(_ context.Context, sc Score, _ string) (Score, error) {
	s.scores = append(s.scores, sc)
	return sc, nil
}
func (s *stubRepo) ScoredKPIs(context.Context, string, string) ([]ScoredKPI, error) {
	return s.scored, nil
}
func (s *stubRepo) SaveSummary(_ context.Context, sum Summary) error {
	s.saved = append(s.saved, sum)
	return nil
}
func (s *stubRepo) GetSummary(_ context.Context, userID, period string) (Summary, error) {
	sum, ok := s.summaries[userID+"/"+period]
	if !ok {
		return Summary{}, ErrSummaryNotFound
	}
	return sum, nil
}

func TestCreateKPIRequiresPositiveWeight(t *testing.T) {
	svc := NewService(&stubRepo{}, nil)

	_, err := svc.CreateKPI(context.Background(), KPI{Name: "Delivery", Weight: 0}, "")
	require.Error(t, err)

	k, err := svc.CreateKPI(context.Background(), KPI{Name: "Delivery", Weight: 0.4}, "")
	require.NoError(t, err)
	require.NotEmpty(t, k.ID)
}

func TestRecordScoreValidatesPeriodAndRange(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	_, err := svc.RecordScore(context.Background(), Score{UserID: "u1", KPIID: "k1", Period: "2026/08", Value: 50}, "")
	require.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = svc.RecordScore(context.Background(), Score{UserID: "u1", KPIID: "k1", Period: "2026-08", Value: 120}, "")
	require.Error(t, err)
	require.Empty(t, repo.scores)
}

func TestRecordScoreWithoutQueueRecalculatesInline(t *testing.T) {
	repo := &stubRepo{scored: []ScoredKPI{{KPIID: "k1", Weight: 1, Value: 80}}}
	svc := NewService(repo, nil)

	_, err := svc.RecordScore(context.Background(), Score{UserID: "u1", KPIID: "k1", Period: "2026-08", Value: 80}, "mgr-1")
	require.NoError(t, err)
	require.Len(t, repo.scores, 1)
	require.Len(t, repo.saved, 1)
	require.InDelta(t, 80, repo.saved[0].Overall, 1e-9)
}

func TestRecalcWeightsValues(t *testing.T) {
	repo := &stubRepo{scored: []ScoredKPI{
		{KPIID: "k1", Name: "Delivery", Weight: 0.6, Value: 90},
		{KPIID: "k2", Name: "Quality", Weight: 0.4, Value: 70},
	}}
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	overall, err := svc.Recalc(context.Background(), "u1", "2026-08")
	require.NoError(t, err)
	require.InDelta(t, 82, overall, 1e-9)
	require.Len(t, repo.saved, 1)
	require.Equal(t, "2026-08", repo.saved[0].Period)
	require.Len(t, repo.saved[0].Scores, 2)
}

func TestRecalcWithoutScores(t *testing.T) {
	svc := NewService(&stubRepo{}, nil)

	_, err := svc.Recalc(context.Background(), "u1", "2026-08")
	require.ErrorIs(t, err, ErrNoScores)
}

func TestSummaryValidation(t *testing.T) {
	repo := &stubRepo{summaries: map[string]Summary{
		"u1/2026-08": {UserID: "u1", Period: "2026-08", Overall: 75},
	}}
	svc := NewService(repo, nil)

	_, err := svc.Summary(context.Background(), "", "2026-08")
	require.Error(t, err)

	_, err = svc.Summary(context.Background(), "u1", "aug")
	require.ErrorIs(t, err, ErrInvalidPeriod)

	sum, err := svc.Summary(context.Background(), "u1", "2026-08")
	require.NoError(t, err)
	require.InDelta(t, 75, sum.Overall, 1e-9)
}
