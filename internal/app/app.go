package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"wheel_predictor/internal/config"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

// Run поднимает HTTP сервер и, если включено, опрос ленты. Завершается при отмене ctx
func (s *App) Run(ctx context.Context) error {
	err := config.Load(".env")
	s.initServiceProvider()
	sp := s.ServiceProvider
	defer sp.Close()

	log := sp.Logger()
	if err != nil {
		log.Warn("error loading .env file", "error", err)
	}

	// Восстановление состояния из хранилища
	if err := sp.WheelService(ctx).Load(ctx); err != nil {
		return err
	}

	if sp.PollCfg().AutoStart() {
		if err := sp.PollerService(ctx).Start(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              sp.HTTPCfg().Address(),
		Handler:           sp.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		sp.PollerService(ctx).Stop()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
