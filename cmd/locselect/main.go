// Command locselect picks a country, state and city from the Location Data
// Service, interactively or from scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/locselect/internal/adapters/driven/config/file"
	"github.com/custodia-labs/locselect/internal/adapters/driven/location/httpclient"
	"github.com/custodia-labs/locselect/internal/adapters/driving/cli"
	"github.com/custodia-labs/locselect/internal/core/ports/driving"
	"github.com/custodia-labs/locselect/internal/core/services"
	"github.com/custodia-labs/locselect/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services behind the CLI.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(store)

	cfg, err := clientConfig(settingsService, opts.BaseURL)
	if err != nil {
		// Keep config commands usable so the file can be fixed.
		logger.Warn("invalid service settings, using defaults: %v", err)
		cfg = httpclient.Config{}
	}
	client := httpclient.NewClient(cfg)
	logger.Debug("location service at %s", client.BaseURL())

	return &cli.Services{
		Catalog:      services.NewLocationCatalog(client),
		Selection:    services.NewSelectionController(client),
		Settings:     settingsService,
		ConfigPath:   store.Path(),
		WatchConfig:  store.Watch,
		ReloadConfig: reloader(settingsService, client, opts.BaseURL),
	}, nil
}

// reloader re-reads settings into client. A --base-url override survives reloads.
func reloader(settings driving.SettingsService, client *httpclient.Client, baseURL string) func() (string, error) {
	return func() (string, error) {
		cfg, err := clientConfig(settings, baseURL)
		if err != nil {
			return client.BaseURL(), err
		}
		client.Reconfigure(cfg)
		logger.Info("service reconfigured: %s", client.BaseURL())
		return client.BaseURL(), nil
	}
}

func clientConfig(settings driving.SettingsService, baseURL string) (httpclient.Config, error) {
	s, err := settings.Get()
	if err != nil {
		return httpclient.Config{}, err
	}
	if baseURL != "" {
		s.Service.BaseURL = baseURL
	}
	if err := s.Service.Validate(); err != nil {
		return httpclient.Config{}, err
	}
	return httpclient.ConfigFromSettings(s.Service), nil
}
