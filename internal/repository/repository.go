package repository

import (
	"context"
	"time"

	"wheel_predictor/internal/model"
)

// SnapshotRepository хранит снимок состояния движка (ключ -> JSON)
type SnapshotRepository interface {
	// LoadSnapshot возвращает model.ErrNoSnapshot, если снимка нет
	LoadSnapshot(ctx context.Context) ([]byte, error)
	SaveSnapshot(ctx context.Context, data []byte) error
}

// OutcomeRepository - журнал добавленных исходов
type OutcomeRepository interface {
	AppendOutcomes(ctx context.Context, outcomes []model.Outcome, source string, at time.Time) error
	CountOutcomes(ctx context.Context) (int, error)
	DeleteOutcomes(ctx context.Context) error
}
