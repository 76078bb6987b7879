package sqlite_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	_ "modernc.org/sqlite"

	"wheel_predictor/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS wheel_state (
	state_key   TEXT PRIMARY KEY,
	payload     BLOB NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS wheel_outcomes (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol       TEXT NOT NULL,
	source       TEXT NOT NULL,
	observed_at  TEXT NOT NULL
);
`

const (
	stateTable   = "wheel_state"
	outcomeTable = "wheel_outcomes"
	stateKey     = "wheel"

	// 3 переменные на строку
	outcomeChunkSize = 500
)

// Store - локальное хранилище состояния в SQLite.
// Реализует repository.SnapshotRepository и repository.OutcomeRepository
type Store struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
}

// NewStore открывает базу и применяет схему
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// одно соединение: sqlite не любит параллельных писателей
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{
		db:     db,
		getter: trmsql.DefaultCtxGetter,
	}, nil
}

// DB - для фабрики транзакций
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) LoadSnapshot(ctx context.Context) ([]byte, error) {
	sqlStr, args, err := sq.Select("payload").
		From(stateTable).
		Where(sq.Eq{"state_key": stateKey}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = s.getter.DefaultTrOrDB(ctx, s.db).QueryRowContext(ctx, sqlStr, args...).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoSnapshot
		}
		return nil, err
	}
	return payload, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, data []byte) error {
	sqlStr, args, err := sq.Insert(stateTable).
		Columns("state_key", "payload", "updated_at").
		Values(stateKey, data, time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT (state_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.getter.DefaultTrOrDB(ctx, s.db).ExecContext(ctx, sqlStr, args...)
	return err
}

// AppendOutcomes пишет журнал пачками по outcomeChunkSize строк, лимит переменных SQLite - 32766
func (s *Store) AppendOutcomes(ctx context.Context, outcomes []model.Outcome, source string, at time.Time) error {
	ts := at.UTC().Format(time.RFC3339Nano)
	db := s.getter.DefaultTrOrDB(ctx, s.db)

	for chunk := range slices.Chunk(outcomes, outcomeChunkSize) {
		query := sq.Insert(outcomeTable).Columns("symbol", "source", "observed_at")
		for _, o := range chunk {
			query = query.Values(string(o), source, ts)
		}

		sqlStr, args, err := query.ToSql()
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("insert outcomes: %w", err)
		}
	}
	return nil
}

func (s *Store) CountOutcomes(ctx context.Context) (int, error) {
	sqlStr, args, err := sq.Select("COUNT(*)").From(outcomeTable).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.getter.DefaultTrOrDB(ctx, s.db).QueryRowContext(ctx, sqlStr, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) DeleteOutcomes(ctx context.Context) error {
	sqlStr, args, err := sq.Delete(outcomeTable).ToSql()
	if err != nil {
		return err
	}

	_, err = s.getter.DefaultTrOrDB(ctx, s.db).ExecContext(ctx, sqlStr, args...)
	return err
}
