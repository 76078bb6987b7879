package service

import (
	"context"

	"wheel_predictor/internal/model"
)

// WheelService - потокобезопасная обертка над движком прогнозов с сохранением состояния
type WheelService interface {
	// Ingest принимает символ или его алиас ("Crazy Time", "ct")
	Ingest(ctx context.Context, symbol string) (model.IngestResult, error)
	// Reconcile добавляет только новые исходы из пачки (от новых к старым)
	Reconcile(ctx context.Context, batch []model.Outcome, source string) (model.ReconcileResult, error)
	Analysis(ctx context.Context) model.Analysis
	Snapshot(ctx context.Context) ([]byte, error)
	// Restore возвращает разделы снимка, замененные значениями по умолчанию
	Restore(ctx context.Context, data []byte) []string
	Reset(ctx context.Context)
	// Load восстанавливает состояние из хранилища при старте
	Load(ctx context.Context) error
	// StoreStatus - состояние хранилища для /health
	StoreStatus(ctx context.Context) model.StoreStatus
}

type AuthService interface {
	Login(ctx context.Context, login, password string) (*model.AuthData, error)
	Verify(accessToken string) (*model.OperatorClaims, error)
}

// PollerService - периодический опрос внешнего источника результатов
type PollerService interface {
	Start(ctx context.Context) error
	Stop()
	Status() model.PollStatus
}
