package outcome_repo

import (
	"context"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"wheel_predictor/internal/model"
	"wheel_predictor/internal/repository"
)

const (
	table         = "wheel_outcomes"
	colSymbol     = "symbol"
	colSource     = "source"
	colObservedAt = "observed_at"

	chunkSize = 500
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewOutcomeRepository(dbc *pgxpool.Pool) repository.OutcomeRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// AppendOutcomes - добавляет исходы в журнал в порядке добавления, пачками по chunkSize строк.
// У Postgres лимит 65535 параметров на запрос
func (r *repo) AppendOutcomes(ctx context.Context, outcomes []model.Outcome, source string, at time.Time) error {
	db := r.getter.DefaultTrOrDB(ctx, r.dbc)
	for _, query := range insertQueries(outcomes, source, at) {
		sqlStr, args, err := query.ToSql()
		if err != nil {
			return err
		}

		_, err = db.Exec(ctx, sqlStr, args...)
		if err != nil {
			return fmt.Errorf("insert outcomes: %w", err)
		}
	}

	return nil
}

func insertQueries(outcomes []model.Outcome, source string, at time.Time) []sq.InsertBuilder {
	queries := make([]sq.InsertBuilder, 0, (len(outcomes)+chunkSize-1)/chunkSize)
	for chunk := range slices.Chunk(outcomes, chunkSize) {
		query := sq.Insert(table).
			Columns(colSymbol, colSource, colObservedAt).
			PlaceholderFormat(sq.Dollar)
		for _, o := range chunk {
			query = query.Values(string(o), source, at.UTC())
		}
		queries = append(queries, query)
	}
	return queries
}

// CountOutcomes - сколько исходов в журнале
func (r *repo) CountOutcomes(ctx context.Context) (int, error) {
	query := sq.Select("COUNT(*)").
		From(table).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// DeleteOutcomes - очищает журнал (полный сброс состояния)
func (r *repo) DeleteOutcomes(ctx context.Context) error {
	query := sq.Delete(table).
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
