package snapshot_repo

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wheel_predictor/internal/model"
	"wheel_predictor/internal/repository"
)

const (
	table        = "wheel_state"
	colKey       = "state_key"
	colPayload   = "payload"
	colUpdatedAt = "updated_at"

	// единственный ключ: состояние одно на процесс
	stateKey = "wheel"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSnapshotRepository(dbc *pgxpool.Pool) repository.SnapshotRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// LoadSnapshot - получение снимка состояния.
// Возвращает model.ErrNoSnapshot, если записи нет
func (r *repo) LoadSnapshot(ctx context.Context) ([]byte, error) {
	query := sq.Select(colPayload).
		From(table).
		Where(sq.Eq{colKey: stateKey}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoSnapshot
		}
		return nil, err
	}

	return payload, nil
}

// SaveSnapshot - сохранение снимка, запись создается при первом сохранении
func (r *repo) SaveSnapshot(ctx context.Context, data []byte) error {
	query := sq.Insert(table).
		Columns(colKey, colPayload, colUpdatedAt).
		Values(stateKey, data, time.Now().UTC()).
		Suffix("ON CONFLICT (" + colKey + ") DO UPDATE SET " +
			colPayload + " = EXCLUDED." + colPayload + ", " +
			colUpdatedAt + " = EXCLUDED." + colUpdatedAt).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}
