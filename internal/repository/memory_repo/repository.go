package memory_repo

import (
	"context"
	"sync"
	"time"

	"wheel_predictor/internal/model"
)

// OutcomeRecord - запись журнала исходов
type OutcomeRecord struct {
	Outcome    model.Outcome
	Source     string
	ObservedAt time.Time
}

// Repo - хранилище в памяти процесса.
// Используется в replay и в тестах, переживает только до перезапуска
type Repo struct {
	mtx      sync.RWMutex
	snapshot []byte
	outcomes []OutcomeRecord
}

// NewRepository Конструктор пустого хранилища
func NewRepository() *Repo {
	return &Repo{
		outcomes: make([]OutcomeRecord, 0),
	}
}

func (r *Repo) LoadSnapshot(_ context.Context) ([]byte, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	if r.snapshot == nil {
		return nil, model.ErrNoSnapshot
	}
	out := make([]byte, len(r.snapshot))
	copy(out, r.snapshot)
	return out, nil
}

func (r *Repo) SaveSnapshot(_ context.Context, data []byte) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.snapshot = make([]byte, len(data))
	copy(r.snapshot, data)
	return nil
}

func (r *Repo) AppendOutcomes(_ context.Context, outcomes []model.Outcome, source string, at time.Time) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, o := range outcomes {
		r.outcomes = append(r.outcomes, OutcomeRecord{
			Outcome:    o,
			Source:     source,
			ObservedAt: at,
		})
	}
	return nil
}

func (r *Repo) CountOutcomes(_ context.Context) (int, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.outcomes), nil
}

func (r *Repo) DeleteOutcomes(_ context.Context) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.outcomes = r.outcomes[:0]
	return nil
}

// Records Получение копии журнала
func (r *Repo) Records() []OutcomeRecord {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	out := make([]OutcomeRecord, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}
