package wheel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/avito-tech/go-transaction-manager/trm/v2"

	"wheel_predictor/internal/config"
	"wheel_predictor/internal/metrics"
	"wheel_predictor/internal/model"
	"wheel_predictor/internal/repository"
	"wheel_predictor/internal/service"
)

type serv struct {
	mtx    sync.Mutex
	engine *Engine

	snapshotRepo repository.SnapshotRepository
	outcomeRepo  repository.OutcomeRepository
	txManager    trm.Manager

	metrics *metrics.Metrics
	log     *slog.Logger

	store model.StoreStatus
}

// NewWheelService Создать сервис прогнозов поверх нового движка
func NewWheelService(
	cfg config.EngineConfig,
	snapshotRepo repository.SnapshotRepository,
	outcomeRepo repository.OutcomeRepository,
	txManager trm.Manager,
	m *metrics.Metrics,
	log *slog.Logger,
) service.WheelService {
	return newServ(NewEngine(cfg, nil), snapshotRepo, outcomeRepo, txManager, m, log)
}

func newServ(
	engine *Engine,
	snapshotRepo repository.SnapshotRepository,
	outcomeRepo repository.OutcomeRepository,
	txManager trm.Manager,
	m *metrics.Metrics,
	log *slog.Logger,
) *serv {
	return &serv{
		engine:       engine,
		snapshotRepo: snapshotRepo,
		outcomeRepo:  outcomeRepo,
		txManager:    txManager,
		metrics:      m,
		log:          log,
		store:        model.StoreStatus{Healthy: true},
	}
}

func (s *serv) Ingest(ctx context.Context, symbol string) (model.IngestResult, error) {
	outcome, err := model.LookupOutcome(symbol)
	if err != nil {
		s.metrics.RejectedTotal.Inc()
		return model.IngestResult{}, err
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	res, err := s.engine.Ingest(outcome)
	if err != nil {
		s.metrics.RejectedTotal.Inc()
		return model.IngestResult{}, err
	}

	s.metrics.OutcomesTotal.WithLabelValues(model.SourceManual).Inc()
	s.observeIngest(res.Evaluated, res.Hit, res.AnomalyDetected)
	s.observeAnalysis(res.Analysis)
	s.log.Debug("outcome ingested",
		"symbol", string(outcome),
		"prediction", res.Analysis.Predictions,
		"pattern", res.Analysis.Pattern.Label)
	if res.AnomalyDetected {
		s.log.Warn("anomaly detected",
			"count", res.Analysis.Anomalies.Count,
			"level", res.Analysis.Anomalies.Level)
	}

	s.persist(ctx, []model.Outcome{outcome}, model.SourceManual)
	return res, nil
}

func (s *serv) Reconcile(ctx context.Context, batch []model.Outcome, source string) (model.ReconcileResult, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	res, err := s.engine.ReconcileBatch(batch)
	if err != nil {
		if errors.Is(err, model.ErrUnknownOutcome) {
			s.metrics.RejectedTotal.Inc()
		}
		return model.ReconcileResult{}, err
	}
	if len(res.Ingested) == 0 {
		return res, nil
	}

	s.metrics.OutcomesTotal.WithLabelValues(source).Add(float64(len(res.Ingested)))
	s.metrics.PredictionsTotal.WithLabelValues("hit").Add(float64(res.Hits))
	s.metrics.PredictionsTotal.WithLabelValues("miss").Add(float64(res.Misses))
	s.metrics.AnomaliesTotal.Add(float64(res.Anomalies))
	s.observeAnalysis(res.Analysis)
	s.log.Info("batch reconciled",
		"source", source,
		"received", len(batch),
		"ingested", len(res.Ingested),
		"hits", res.Hits,
		"misses", res.Misses,
		"anomalies", res.Anomalies)

	s.persist(ctx, res.Ingested, source)
	return res, nil
}

func (s *serv) Analysis(_ context.Context) model.Analysis {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.engine.Analysis()
}

func (s *serv) Snapshot(_ context.Context) ([]byte, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.engine.Snapshot()
}

func (s *serv) Restore(ctx context.Context, data []byte) []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	fallback := s.engine.Restore(data)
	if len(fallback) > 0 {
		s.log.Warn("snapshot sections reset to defaults", "sections", fallback)
	}
	s.observeAnalysis(s.engine.Analysis())

	s.persist(ctx, nil, "")
	return fallback
}

func (s *serv) Reset(ctx context.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.engine.Reset()
	s.observeAnalysis(s.engine.Analysis())
	s.log.Info("state reset")

	data, err := s.engine.Snapshot()
	if err != nil {
		s.persistFailed(err)
		return
	}
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.outcomeRepo.DeleteOutcomes(ctx); err != nil {
			return fmt.Errorf("delete outcomes: %w", err)
		}
		if err := s.snapshotRepo.SaveSnapshot(ctx, data); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		s.persistFailed(err)
		return
	}
	s.persisted()
}

func (s *serv) Load(ctx context.Context) error {
	data, err := s.snapshotRepo.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoSnapshot) {
			s.log.Info("no stored snapshot, starting with defaults")
			return nil
		}
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	fallback := s.engine.Restore(data)
	a := s.engine.Analysis()
	s.observeAnalysis(a)
	s.log.Info("state restored",
		"history", a.HistorySize,
		"defaults", fallback)
	return nil
}

// StoreStatus - результат последнего сохранения и размер журнала исходов.
// Ошибка чтения журнала делает статус нездоровым только в возвращаемой копии
func (s *serv) StoreStatus(ctx context.Context) model.StoreStatus {
	s.mtx.Lock()
	st := s.store
	s.mtx.Unlock()

	if st.LastSaved != nil {
		t := *st.LastSaved
		st.LastSaved = &t
	}

	logged, err := s.outcomeRepo.CountOutcomes(ctx)
	if err != nil {
		s.log.Error("count logged outcomes", "error", err)
		st.Healthy = false
		st.LastError = fmt.Errorf("count outcomes: %w", err).Error()
		return st
	}
	st.LoggedOutcomes = logged
	return st
}

// persist сохраняет снимок и новые исходы одной транзакцией.
// Ошибка не откатывает состояние движка, она логируется и видна в StoreStatus
func (s *serv) persist(ctx context.Context, ingested []model.Outcome, source string) {
	data, err := s.engine.Snapshot()
	if err != nil {
		s.persistFailed(err)
		return
	}

	at := s.engine.now()
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if len(ingested) > 0 {
			if err := s.outcomeRepo.AppendOutcomes(ctx, ingested, source, at); err != nil {
				return fmt.Errorf("append outcomes: %w", err)
			}
		}
		if err := s.snapshotRepo.SaveSnapshot(ctx, data); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		s.persistFailed(err)
		return
	}
	s.persisted()
}

func (s *serv) persisted() {
	now := s.engine.now()
	s.store = model.StoreStatus{Healthy: true, LastSaved: &now}
}

func (s *serv) persistFailed(err error) {
	s.metrics.PersistErrors.Inc()
	s.store.Healthy = false
	s.store.LastError = err.Error()
	s.log.Error("persist state", "error", err)
}

func (s *serv) observeIngest(evaluated, hit, anomaly bool) {
	if evaluated {
		if hit {
			s.metrics.PredictionsTotal.WithLabelValues("hit").Inc()
		} else {
			s.metrics.PredictionsTotal.WithLabelValues("miss").Inc()
		}
	}
	if anomaly {
		s.metrics.AnomaliesTotal.Inc()
	}
}

func (s *serv) observeAnalysis(a model.Analysis) {
	s.metrics.HistorySize.Set(float64(a.HistorySize))
	s.metrics.FirstHitRate.Set(a.Learning.FirstHitRate)
}
