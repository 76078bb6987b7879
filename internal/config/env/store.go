package env

import (
	"fmt"
	"os"

	"wheel_predictor/internal/config"
)

const (
	storeDriverEnvName = "STORE_DRIVER"
	sqlitePathEnvName  = "SQLITE_PATH"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLitePath = "wheel_state.db"
)

type storeConfig struct {
	driver     string
	sqlitePath string
}

func NewStoreConfig() (config.StoreConfig, error) {
	driver := os.Getenv(storeDriverEnvName)
	if len(driver) == 0 {
		driver = DriverSQLite
	}
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	path := os.Getenv(sqlitePathEnvName)
	if len(path) == 0 {
		path = defaultSQLitePath
	}

	return &storeConfig{
		driver:     driver,
		sqlitePath: path,
	}, nil
}

func (cfg *storeConfig) Driver() string {
	return cfg.driver
}

func (cfg *storeConfig) SQLitePath() string {
	return cfg.sqlitePath
}
