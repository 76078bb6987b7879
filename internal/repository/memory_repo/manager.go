package memory_repo

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// NoopManager - trm.Manager для хранилища в памяти, транзакций нет
type NoopManager struct{}

func (NoopManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (NoopManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ trm.Manager = NoopManager{}
