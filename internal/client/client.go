package client

import (
	"context"

	"wheel_predictor/internal/model"
)

// ResultsFetcher - источник последних результатов колеса (от новых к старым)
type ResultsFetcher interface {
	Fetch(ctx context.Context) ([]model.Outcome, error)
}
