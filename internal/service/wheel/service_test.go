package wheel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheel_predictor/internal/logger"
	"wheel_predictor/internal/metrics"
	"wheel_predictor/internal/model"
	"wheel_predictor/internal/repository/memory_repo"
)

type failingSnapshots struct {
	err error
}

func (f failingSnapshots) LoadSnapshot(context.Context) ([]byte, error) { return nil, f.err }
func (f failingSnapshots) SaveSnapshot(context.Context, []byte) error   { return f.err }

type brokenOutcomeLog struct {
	*memory_repo.Repo
	err error
}

func (b brokenOutcomeLog) CountOutcomes(context.Context) (int, error) { return 0, b.err }

func newTestService(t *testing.T) (*serv, *memory_repo.Repo) {
	t.Helper()
	repo := memory_repo.NewRepository()
	s := newServ(
		newTestEngine(t),
		repo,
		repo,
		memory_repo.NoopManager{},
		metrics.New(prometheus.NewRegistry()),
		logger.Discard(),
	)
	return s, repo
}

func TestService_IngestNormalizesAndPersists(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	res, err := s.Ingest(ctx, "Crazy Time")
	require.NoError(t, err)
	assert.Equal(t, []model.Outcome{model.CrazyTime}, res.Analysis.Recent)

	records := repo.Records()
	require.Len(t, records, 1)
	assert.Equal(t, model.CrazyTime, records[0].Outcome)
	assert.Equal(t, model.SourceManual, records[0].Source)
	assert.Equal(t, testNow, records[0].ObservedAt)

	data, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"results":["CT"]`)

	st := s.StoreStatus(ctx)
	assert.True(t, st.Healthy)
	assert.Equal(t, 1, st.LoggedOutcomes)
	require.NotNil(t, st.LastSaved)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.OutcomesTotal.WithLabelValues(model.SourceManual)))
}

func TestService_IngestRejectsUnknown(t *testing.T) {
	s, repo := newTestService(t)

	_, err := s.Ingest(context.Background(), "seven")
	require.ErrorIs(t, err, model.ErrUnknownOutcome)

	assert.Empty(t, repo.Records())
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.RejectedTotal))
}

func TestService_IngestRejectsTextContainingAName(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	for _, in := range []string{"someone", "phone", "bitten", "hunter"} {
		_, err := s.Ingest(ctx, in)
		assert.ErrorIs(t, err, model.ErrUnknownOutcome, in)
	}

	assert.Zero(t, s.Analysis(ctx).HistorySize)
	assert.Empty(t, repo.Records())
	assert.Equal(t, 4.0, testutil.ToFloat64(s.metrics.RejectedTotal))
}

func TestService_ReconcileLogsOnlyNewOutcomes(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	_, err := s.Reconcile(ctx, []model.Outcome{model.Two, model.One}, model.SourcePoll)
	require.NoError(t, err)
	res, err := s.Reconcile(ctx, []model.Outcome{model.Five, model.Two, model.One}, model.SourcePoll)
	require.NoError(t, err)

	assert.Equal(t, []model.Outcome{model.Five}, res.Ingested)
	records := repo.Records()
	require.Len(t, records, 3)
	assert.Equal(t, model.One, records[0].Outcome)
	assert.Equal(t, model.Five, records[2].Outcome)
	assert.Equal(t, 3.0, testutil.ToFloat64(s.metrics.OutcomesTotal.WithLabelValues(model.SourcePoll)))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.metrics.HistorySize))
}

func TestService_ResetClearsLog(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	_, err := s.Ingest(ctx, "1")
	require.NoError(t, err)

	s.Reset(ctx)

	assert.Empty(t, repo.Records())
	assert.Zero(t, s.Analysis(ctx).HistorySize)
	data, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"results":[]`)
}

func TestService_LoadRestoresStoredState(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	assert.Zero(t, s.Analysis(ctx).HistorySize)

	require.NoError(t, repo.SaveSnapshot(ctx, []byte(`{"results":["H","1"]}`)))
	require.NoError(t, s.Load(ctx))

	a := s.Analysis(ctx)
	assert.Equal(t, []model.Outcome{model.CashHunt, model.One}, a.Recent)
	assert.Len(t, a.Learning.LastPrediction, 3)
}

func TestService_RestorePersists(t *testing.T) {
	s, repo := newTestService(t)
	ctx := context.Background()

	fallback := s.Restore(ctx, []byte(`{"results":["P"]}`))
	assert.Contains(t, fallback, SectionLearning)

	data, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"results":["P"]`)
	assert.Empty(t, repo.Records())
}

func TestService_PersistFailureKeepsState(t *testing.T) {
	boom := errors.New("disk full")
	repo := memory_repo.NewRepository()
	s := newServ(
		NewEngine(testConfig(t, 100, 85), func() time.Time { return testNow }),
		failingSnapshots{err: boom},
		repo,
		memory_repo.NoopManager{},
		metrics.New(prometheus.NewRegistry()),
		logger.Discard(),
	)
	ctx := context.Background()

	_, err := s.Ingest(ctx, "2")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Analysis(ctx).HistorySize)
	st := s.StoreStatus(ctx)
	assert.False(t, st.Healthy)
	assert.Contains(t, st.LastError, "disk full")
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.PersistErrors))

	err = s.Load(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestService_StoreStatusReportsUnreadableLog(t *testing.T) {
	repo := memory_repo.NewRepository()
	s := newServ(
		newTestEngine(t),
		repo,
		brokenOutcomeLog{Repo: repo, err: errors.New("connection reset")},
		memory_repo.NoopManager{},
		metrics.New(prometheus.NewRegistry()),
		logger.Discard(),
	)
	ctx := context.Background()

	_, err := s.Ingest(ctx, "5")
	require.NoError(t, err)

	st := s.StoreStatus(ctx)
	assert.False(t, st.Healthy)
	assert.Contains(t, st.LastError, "connection reset")
	require.NotNil(t, st.LastSaved)
	assert.Zero(t, testutil.ToFloat64(s.metrics.PersistErrors))
}
