package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"wheel_predictor/internal/client"
	"wheel_predictor/internal/metrics"
	"wheel_predictor/internal/model"
	"wheel_predictor/internal/service"
)

var ErrNoFeed = errors.New("results feed is not configured")

type serv struct {
	fetcher  client.ResultsFetcher
	wheel    service.WheelService
	interval time.Duration
	now      func() time.Time

	metrics *metrics.Metrics
	log     *slog.Logger

	// ctl сериализует Start/Stop, mtx защищает статус
	ctl    sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	mtx    sync.Mutex
	status model.PollStatus
}

// NewPollerService Создать опрос ленты результатов. fetcher == nil - лента не настроена
func NewPollerService(
	fetcher client.ResultsFetcher,
	wheel service.WheelService,
	interval time.Duration,
	m *metrics.Metrics,
	log *slog.Logger,
) service.PollerService {
	return &serv{
		fetcher:  fetcher,
		wheel:    wheel,
		interval: interval,
		now:      time.Now,
		metrics:  m,
		log:      log,
		status:   model.PollStatus{State: model.PollStopped},
	}
}

// Start запускает опрос, уже работающий цикл заменяется новым.
// Первый опрос выполняется сразу
func (s *serv) Start(ctx context.Context) error {
	if s.fetcher == nil {
		return ErrNoFeed
	}

	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.stopLocked()

	// цикл живет дольше запроса, который его запустил
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	s.mtx.Lock()
	s.status.Running = true
	s.status.State = model.PollUpdating
	s.mtx.Unlock()

	go s.loop(loopCtx, done)
	s.log.Info("poller started", "interval", s.interval)
	return nil
}

// Stop останавливает опрос и ждет завершения текущего цикла. Повторный вызов ничего не делает
func (s *serv) Stop() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.stopLocked() {
		s.log.Info("poller stopped")
	}
}

func (s *serv) stopLocked() bool {
	if s.cancel == nil {
		return false
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil

	s.mtx.Lock()
	s.status.Running = false
	s.status.State = model.PollStopped
	s.mtx.Unlock()
	return true
}

func (s *serv) Status() model.PollStatus {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	st := s.status
	if st.LastUpdate != nil {
		t := *st.LastUpdate
		st.LastUpdate = &t
	}
	return st
}

func (s *serv) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick - один опрос: загрузка ленты и сверка с историей
func (s *serv) tick(ctx context.Context) {
	s.setState(model.PollUpdating)

	started := time.Now()
	batch, err := s.fetcher.Fetch(ctx)
	s.metrics.PollDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.failed(err)
		return
	}

	res, err := s.wheel.Reconcile(ctx, batch, model.SourcePoll)
	if err != nil {
		s.failed(err)
		return
	}

	s.metrics.PollsTotal.WithLabelValues("ok").Inc()
	now := s.now()
	s.mtx.Lock()
	s.status.State = model.PollOnline
	s.status.LastUpdate = &now
	s.status.LastError = ""
	s.status.Ingested += len(res.Ingested)
	s.mtx.Unlock()
}

func (s *serv) failed(err error) {
	s.metrics.PollsTotal.WithLabelValues("error").Inc()
	s.log.Warn("poll failed", "error", err)

	s.mtx.Lock()
	s.status.State = model.PollOffline
	s.status.LastError = err.Error()
	s.mtx.Unlock()
}

func (s *serv) setState(state string) {
	s.mtx.Lock()
	s.status.State = state
	s.mtx.Unlock()
}
