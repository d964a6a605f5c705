// Package app assembles the dashboard and its collaborators from configuration.
package app

import (
	"context"
	"fmt"

	"plantdash/internal/config"
	"plantdash/internal/dashboard"
	"plantdash/internal/dataset"
	"plantdash/internal/fetchers"
	"plantdash/internal/logger"
	"plantdash/internal/mocks"
	"plantdash/internal/models"
	"plantdash/internal/preferences"
	"plantdash/internal/storage"
)

// App is a wired dashboard with the resources it owns
type App struct {
	Config    *config.Config
	Storage   storage.StorageClient
	Data      *dataset.Store
	Prefs     *preferences.Store
	Dashboard *dashboard.Dashboard
}

// New builds storage, the data source, the dataset store and a dashboard with
// persisted preferences applied
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	horizon, err := cfg.Horizon()
	if err != nil {
		return nil, err
	}
	start, err := cfg.Start()
	if err != nil {
		return nil, err
	}

	client, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.StorageMode), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	data := dataset.NewStore(models.Plants, NewSource(cfg), logger.Component("dataset"))
	prefs := preferences.NewStore(client, cfg.PreferencesKey, len(models.Plants), logger.Component("preferences"))
	dash := dashboard.New(models.Plants, data, prefs, horizon, start, logger.Component("dashboard"))
	dash.Load(ctx)

	logger.Info("dashboard ready", logger.Fields{
		"storage": cfg.StorageMode,
		"horizon": cfg.DataHorizon,
		"start":   start.String(),
	})

	return &App{
		Config:    cfg,
		Storage:   client,
		Data:      data,
		Prefs:     prefs,
		Dashboard: dash,
	}, nil
}

// NewSource picks the data source: the HTTP series API when DATA_SOURCE_URL is
// set, fixture files when MOCK_DATA_DIR is set, random generation otherwise
func NewSource(cfg *config.Config) dataset.Source {
	switch {
	case cfg.DataSourceURL != "":
		logger.Info("using HTTP series source", logger.Fields{"url": cfg.DataSourceURL})
		return fetchers.NewSeriesFetcher(cfg.DataSourceURL)
	case cfg.MockDataDir != "":
		logger.Info("using fixture series source", logger.Fields{"dir": cfg.MockDataDir})
		return mocks.NewFixtureSource(cfg.MockDataDir, dataset.NewRandomSource(cfg.RandomSeed))
	default:
		return dataset.NewRandomSource(cfg.RandomSeed)
	}
}

// Close releases storage
func (a *App) Close() error {
	return a.Storage.Close()
}
