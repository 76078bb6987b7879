package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheel_predictor/internal/config/env"
	"wheel_predictor/internal/logger"
	"wheel_predictor/internal/metrics"
	"wheel_predictor/internal/model"
	"wheel_predictor/internal/repository/memory_repo"
	"wheel_predictor/internal/service"
	"wheel_predictor/internal/service/wheel"
)

type fakeFetcher struct {
	mtx   sync.Mutex
	batch []model.Outcome
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context) ([]model.Outcome, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Outcome(nil), f.batch...), nil
}

func (f *fakeFetcher) set(batch []model.Outcome, err error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.batch, f.err = batch, err
}

func newTestPoller(t *testing.T, f *fakeFetcher) (service.PollerService, service.WheelService) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	repo := memory_repo.NewRepository()
	ws := wheel.NewWheelService(env.DefaultEngineConfig(), repo, repo, memory_repo.NoopManager{}, m, logger.Discard())
	p := NewPollerService(f, ws, 10*time.Millisecond, m, logger.Discard())
	t.Cleanup(p.Stop)
	return p, ws
}

func TestPoller_ReconcilesFeed(t *testing.T) {
	f := &fakeFetcher{batch: []model.Outcome{model.CrazyTime, model.One, model.Two}}
	p, ws := newTestPoller(t, f)
	ctx := context.Background()

	require.NoError(t, p.Start(ctx))

	assert.Eventually(t, func() bool {
		return p.Status().State == model.PollOnline
	}, time.Second, 5*time.Millisecond)

	f.set([]model.Outcome{model.Five, model.CrazyTime, model.One, model.Two}, nil)
	assert.Eventually(t, func() bool {
		return ws.Analysis(ctx).HistorySize == 4
	}, time.Second, 5*time.Millisecond)

	st := p.Status()
	assert.True(t, st.Running)
	assert.NotNil(t, st.LastUpdate)
	assert.Empty(t, st.LastError)
	assert.Equal(t, 4, st.Ingested)
	assert.Equal(t, []model.Outcome{model.Five, model.CrazyTime, model.One, model.Two}, ws.Analysis(ctx).Recent)
}

func TestPoller_FetchErrorGoesOffline(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	p, ws := newTestPoller(t, f)

	require.NoError(t, p.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return p.Status().State == model.PollOffline
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, p.Status().LastError, "connection refused")
	assert.Zero(t, ws.Analysis(context.Background()).HistorySize)

	// восстановление после ошибки
	f.set([]model.Outcome{model.Ten}, nil)
	assert.Eventually(t, func() bool {
		st := p.Status()
		return st.State == model.PollOnline && st.LastError == ""
	}, time.Second, 5*time.Millisecond)
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	f := &fakeFetcher{batch: []model.Outcome{model.One}}
	p, _ := newTestPoller(t, f)

	p.Stop()
	require.NoError(t, p.Start(context.Background()))
	// повторный старт заменяет цикл
	require.NoError(t, p.Start(context.Background()))

	p.Stop()
	p.Stop()

	st := p.Status()
	assert.False(t, st.Running)
	assert.Equal(t, model.PollStopped, st.State)

	f.mtx.Lock()
	calls := f.calls
	f.mtx.Unlock()
	time.Sleep(30 * time.Millisecond)
	f.mtx.Lock()
	assert.Equal(t, calls, f.calls)
	f.mtx.Unlock()
}

func TestPoller_StartSurvivesCanceledRequestContext(t *testing.T) {
	f := &fakeFetcher{batch: []model.Outcome{model.One}}
	p, _ := newTestPoller(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool {
		f.mtx.Lock()
		defer f.mtx.Unlock()
		return f.calls >= 3
	}, time.Second, 5*time.Millisecond)
	assert.True(t, p.Status().Running)
}

func TestPoller_WithoutFeed(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	p := NewPollerService(nil, nil, time.Second, m, logger.Discard())

	assert.ErrorIs(t, p.Start(context.Background()), ErrNoFeed)
	assert.Equal(t, model.PollStopped, p.Status().State)
}

type ctxRecordingFetcher struct {
	mtx  sync.Mutex
	ctxs []context.Context
}

func (f *ctxRecordingFetcher) Fetch(ctx context.Context) ([]model.Outcome, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.ctxs = append(f.ctxs, ctx)
	return []model.Outcome{model.One}, nil
}

// loops - контексты циклов в порядке первого опроса
func (f *ctxRecordingFetcher) loops() []context.Context {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	var out []context.Context
	for _, ctx := range f.ctxs {
		if len(out) == 0 || out[len(out)-1] != ctx {
			out = append(out, ctx)
		}
	}
	return out
}

func TestPoller_RestartReplacesLoop(t *testing.T) {
	f := &ctxRecordingFetcher{}
	m := metrics.New(prometheus.NewRegistry())
	repo := memory_repo.NewRepository()
	ws := wheel.NewWheelService(env.DefaultEngineConfig(), repo, repo, memory_repo.NoopManager{}, m, logger.Discard())
	p := NewPollerService(f, ws, 5*time.Millisecond, m, logger.Discard())
	t.Cleanup(p.Stop)

	require.NoError(t, p.Start(context.Background()))
	assert.Eventually(t, func() bool { return len(f.loops()) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, p.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)

	loops := f.loops()
	// после перезапуска опрашивает только новый цикл
	require.Len(t, loops, 2)
	assert.Error(t, loops[0].Err())
	assert.NoError(t, loops[1].Err())

	f.mtx.Lock()
	fromNew := 0
	for _, ctx := range f.ctxs {
		if ctx == loops[1] {
			fromNew++
		}
	}
	f.mtx.Unlock()
	assert.Greater(t, fromNew, 2)

	st := p.Status()
	assert.True(t, st.Running)
	assert.NotEqual(t, model.PollStopped, st.State)
}
