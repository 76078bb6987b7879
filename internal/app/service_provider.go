package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	authAPI "wheel_predictor/internal/api/auth"
	healthAPI "wheel_predictor/internal/api/health"
	pollerAPI "wheel_predictor/internal/api/poller"
	wheelAPI "wheel_predictor/internal/api/wheel"
	"wheel_predictor/internal/client"
	"wheel_predictor/internal/client/results"
	"wheel_predictor/internal/config"
	"wheel_predictor/internal/config/env"
	"wheel_predictor/internal/logger"
	"wheel_predictor/internal/metrics"
	"wheel_predictor/internal/repository"
	"wheel_predictor/internal/repository/outcome_repo"
	"wheel_predictor/internal/repository/snapshot_repo"
	"wheel_predictor/internal/repository/sqlite_repo"
	"wheel_predictor/internal/service"
	"wheel_predictor/internal/service/auth"
	"wheel_predictor/internal/service/poller"
	"wheel_predictor/internal/service/wheel"
)

const (
	engineConfigPath = "config.yaml"
	// лента не запрашивается чаще, между запросами отдается кэш
	fetchCacheDuration = 30 * time.Second
)

type ServiceProvider struct {
	// Logging and metrics
	logCfg   config.LogConfig
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	//TXManager
	txManager trm.Manager

	// Storage
	storeCfg    config.StoreConfig
	pgConfig    config.PGConfig
	dbClient    *pgxpool.Pool
	sqliteStore *sqlite_repo.Store

	snapshotRepo repository.SnapshotRepository
	outcomeRepo  repository.OutcomeRepository

	// Wheel bits
	engineCfg config.EngineConfig
	wheelServ service.WheelService
	wheelHand *wheelAPI.Handler

	// Auth bits
	authCfg  config.AuthConfig
	jwtCfg   config.JWTConfig
	authServ service.AuthService
	authHand *authAPI.Handler

	// Poller bits
	pollCfg    config.PollConfig
	fetcher    client.ResultsFetcher
	pollerServ service.PollerService
	pollerHand *pollerAPI.Handler

	healthHand *healthAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		sp.logCfg = env.NewLogConfig()
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() *slog.Logger {
	if sp.log == nil {
		sp.log = logger.New(sp.LogCfg().Level())
	}
	return sp.log
}

func (sp *ServiceProvider) Registry() *prometheus.Registry {
	if sp.registry == nil {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sp.registry = reg
	}
	return sp.registry
}

func (sp *ServiceProvider) Metrics() *metrics.Metrics {
	if sp.metrics == nil {
		sp.metrics = metrics.New(sp.Registry())
	}
	return sp.metrics
}

func (sp *ServiceProvider) StoreCfg() config.StoreConfig {
	if sp.storeCfg == nil {
		cfg, err := env.NewStoreConfig()
		if err != nil {
			panic("failed to get store config: " + err.Error())
		}
		sp.storeCfg = cfg
	}
	return sp.storeCfg
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		poolCfg, err := pgxpool.ParseConfig(sp.PgConfig().DSN())
		if err != nil {
			panic("failed to parse db dsn: " + err.Error())
		}
		poolCfg.MaxConns = sp.PgConfig().MaxConns()

		dbc, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) SQLiteStore() *sqlite_repo.Store {
	if sp.sqliteStore == nil {
		store, err := sqlite_repo.NewStore(sp.StoreCfg().SQLitePath())
		if err != nil {
			panic("failed to open sqlite store: " + err.Error())
		}
		sp.sqliteStore = store
	}
	return sp.sqliteStore
}

func (sp *ServiceProvider) usePostgres() bool {
	return sp.StoreCfg().Driver() == env.DriverPostgres
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		var factory trm.TrFactory
		if sp.usePostgres() {
			factory = trmpgx.NewDefaultFactory(sp.DBClient(ctx))
		} else {
			factory = trmsql.NewDefaultFactory(sp.SQLiteStore().DB())
		}

		m, err := manager.New(factory)
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) SnapshotRepository(ctx context.Context) repository.SnapshotRepository {
	if sp.snapshotRepo == nil {
		if sp.usePostgres() {
			sp.snapshotRepo = snapshot_repo.NewSnapshotRepository(sp.DBClient(ctx))
		} else {
			sp.snapshotRepo = sp.SQLiteStore()
		}
	}
	return sp.snapshotRepo
}

func (sp *ServiceProvider) OutcomeRepository(ctx context.Context) repository.OutcomeRepository {
	if sp.outcomeRepo == nil {
		if sp.usePostgres() {
			sp.outcomeRepo = outcome_repo.NewOutcomeRepository(sp.DBClient(ctx))
		} else {
			sp.outcomeRepo = sp.SQLiteStore()
		}
	}
	return sp.outcomeRepo
}

func (sp *ServiceProvider) EngineCfg() config.EngineConfig {
	if sp.engineCfg == nil {
		cfg, err := env.NewEngineConfigFromYAML(engineConfigPath)
		if err != nil {
			panic("failed to get engine config: " + err.Error())
		}
		sp.engineCfg = cfg
	}
	return sp.engineCfg
}

func (sp *ServiceProvider) WheelService(ctx context.Context) service.WheelService {
	if sp.wheelServ == nil {
		sp.wheelServ = wheel.NewWheelService(
			sp.EngineCfg(),
			sp.SnapshotRepository(ctx),
			sp.OutcomeRepository(ctx),
			sp.TXManager(ctx),
			sp.Metrics(),
			sp.Logger().With("component", "wheel"),
		)
	}
	return sp.wheelServ
}

func (sp *ServiceProvider) WheelHandler(ctx context.Context) *wheelAPI.Handler {
	if sp.wheelHand == nil {
		sp.wheelHand = wheelAPI.NewHandler(wheelAPI.HandlerDeps{
			Serv: sp.WheelService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.wheelHand
}

func (sp *ServiceProvider) AuthCfg() config.AuthConfig {
	if sp.authCfg == nil {
		cfg, err := env.NewAuthConfig()
		if err != nil {
			panic("failed to get auth config: " + err.Error())
		}
		sp.authCfg = cfg
	}
	return sp.authCfg
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AuthService() service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(sp.AuthCfg(), sp.JWTCfg())
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler() *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{
			Serv: sp.AuthService(),
			Log:  sp.Logger(),
		})
	}
	return sp.authHand
}

func (sp *ServiceProvider) PollCfg() config.PollConfig {
	if sp.pollCfg == nil {
		cfg, err := env.NewPollConfig()
		if err != nil {
			panic("failed to get poll config: " + err.Error())
		}
		sp.pollCfg = cfg
	}
	return sp.pollCfg
}

// Fetcher - nil, если FETCH_URL не задан
func (sp *ServiceProvider) Fetcher() client.ResultsFetcher {
	if sp.fetcher == nil && len(sp.PollCfg().FetchURL()) != 0 {
		sp.fetcher = results.NewFetcher(
			sp.PollCfg().FetchURL(),
			&http.Client{Timeout: sp.PollCfg().FetchTimeout()},
			fetchCacheDuration,
			sp.Logger().With("component", "fetcher"),
		)
	}
	return sp.fetcher
}

func (sp *ServiceProvider) PollerService(ctx context.Context) service.PollerService {
	if sp.pollerServ == nil {
		sp.pollerServ = poller.NewPollerService(
			sp.Fetcher(),
			sp.WheelService(ctx),
			sp.EngineCfg().UpdateInterval(),
			sp.Metrics(),
			sp.Logger().With("component", "poller"),
		)
	}
	return sp.pollerServ
}

func (sp *ServiceProvider) PollerHandler(ctx context.Context) *pollerAPI.Handler {
	if sp.pollerHand == nil {
		sp.pollerHand = pollerAPI.NewHandler(pollerAPI.HandlerDeps{
			Serv: sp.PollerService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.pollerHand
}

func (sp *ServiceProvider) HealthHandler(ctx context.Context) *healthAPI.Handler {
	if sp.healthHand == nil {
		sp.healthHand = healthAPI.NewHandler(healthAPI.HandlerDeps{
			Wheel:  sp.WheelService(ctx),
			Poller: sp.PollerService(ctx),
		})
	}
	return sp.healthHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		sp.router = newRouter(routerDeps{
			wheel:    sp.WheelHandler(ctx),
			auth:     sp.AuthHandler(),
			poller:   sp.PollerHandler(ctx),
			health:   sp.HealthHandler(ctx),
			authServ: sp.AuthService(),
			registry: sp.Registry(),
		})
	}

	return sp.router
}

// Close освобождает соединения с хранилищем
func (sp *ServiceProvider) Close() {
	if sp.pollerServ != nil {
		sp.pollerServ.Stop()
	}
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.sqliteStore != nil {
		if err := sp.sqliteStore.Close(); err != nil {
			sp.Logger().Error("close sqlite store", "error", err)
		}
	}
}
