package app

import (
	"context"
	"errors"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"github.com/uyouii/fuelprice-timeseries/config"
	"github.com/uyouii/fuelprice-timeseries/loader"
	"github.com/uyouii/fuelprice-timeseries/model"
	"github.com/uyouii/fuelprice-timeseries/server"
	"github.com/uyouii/fuelprice-timeseries/service"
	"github.com/uyouii/fuelprice-timeseries/store"
	"go.uber.org/zap"
)

type App struct {
	logger *zap.Logger
	Store  *store.Store
	Server *server.Server
}

// New loads the dataset and builds the http server on top of it.
func New(ctx context.Context, logger *zap.Logger, cfg *config.Config) (*App, error) {
	records, err := loadRecords(ctx, cfg.Data)
	if err != nil {
		return nil, err
	}

	st := store.New(records)
	logger.Info("store ready", zap.Int("records", st.Len()),
		zap.Strings("cities", st.Cities()), zap.Strings("products", st.Products()))

	srv := server.New(logger, service.NewPriceService(st), server.Options{
		Addr:          cfg.HTTP.Addr(),
		ReadTimeout:   cfg.HTTP.ReadTimeout,
		WriteTimeout:  cfg.HTTP.WriteTimeout,
		DefaultWindow: cfg.Query.DefaultWindow,
		DefaultZ:      cfg.Query.DefaultZ,
		RateLimit:     cfg.HTTP.RateLimit,
		RateBurst:     cfg.HTTP.RateBurst,
	})

	return &App{
		logger: logger,
		Store:  st,
		Server: srv,
	}, nil
}

func loadRecords(ctx context.Context, cfg config.DataConfig) ([]model.Record, error) {
	if cfg.URL != "" {
		records, err := loader.Fetch(ctx, cfg.URL, &loader.FetchOptions{
			Timeout:         cfg.FetchTimeout,
			InitialInterval: cfg.RetryInitDelay,
			MaxElapsedTime:  cfg.MaxRetryTime,
		}, nil)
		return records, pkgerrors.Wrap(err, "app.New fetch dataset")
	}

	records, err := loader.LoadCSV(ctx, cfg.Path, nil)
	return records, pkgerrors.Wrap(err, "app.New load dataset")
}

// MustRun runs the http server and panics if it stops for any reason other than Stop.
func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return pkgerrors.Wrap(err, "app.Run")
	}
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	return pkgerrors.Wrap(a.Server.Shutdown(ctx), "app.Stop")
}
