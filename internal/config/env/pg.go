package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"wheel_predictor/internal/config"
)

const (
	dsnName      = "PG_DSN"
	maxConnsName = "PG_MAX_CONNS"

	// снимок и журнал пишутся под одной блокировкой сервиса, большой пул не нужен
	defaultMaxConns = 4
)

type pgConfig struct {
	dsn      string
	maxConns int32
}

func NewPGConfig() (config.PGConfig, error) {
	dsn := os.Getenv(dsnName)
	if len(dsn) == 0 {
		return nil, errors.New("pg dsn not found")
	}

	cfg := &pgConfig{
		dsn:      dsn,
		maxConns: defaultMaxConns,
	}

	if raw := os.Getenv(maxConnsName); len(raw) != 0 {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid pg max conns %q", raw)
		}
		cfg.maxConns = int32(n)
	}

	return cfg, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.dsn
}

func (cfg *pgConfig) MaxConns() int32 {
	return cfg.maxConns
}
