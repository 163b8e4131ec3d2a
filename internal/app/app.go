// Package app wires the configured collaborators into a pipeline.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/legalchunk/internal/config"
	"github.com/dgallion1/legalchunk/internal/manifest"
	"github.com/dgallion1/legalchunk/internal/pipeline"
	"github.com/dgallion1/legalchunk/internal/publish"
	"github.com/dgallion1/legalchunk/internal/sink"
	"github.com/dgallion1/legalchunk/internal/tokenizer"
)

// App owns the orchestrator and everything it was built from.
type App struct {
	Orchestrator *pipeline.Orchestrator
	Encoding     string

	closers []func() error
}

// New builds the pipeline for cfg. The orchestrator is not started.
func New(cfg config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{}
	counter := tokenizer.New(cfg.TokenEncoding, log)
	a.Encoding = tokenizer.Name(counter)

	out, err := sink.NewFileSink(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	deps := pipeline.Deps{Counter: counter, Sink: out}

	if cfg.ManifestPath != "" {
		store, err := manifest.Open(cfg.ManifestPath)
		if err != nil {
			return nil, err
		}
		deps.Manifest = store
		a.closers = append(a.closers, store.Close)
	}

	if cfg.PublishURL != "" {
		if cfg.PublishCatalog != "" {
			cat, err := publish.LoadCatalog(cfg.PublishCatalog)
			if err != nil {
				a.Close()
				return nil, fmt.Errorf("publish catalog: %w", err)
			}
			deps.Catalog = cat
		}
		client := publish.NewClient(cfg.PublishURL, cfg.PublishAPIKey, cfg.PublishRate)
		deps.Publisher = client
		a.closers = append(a.closers, func() error {
			client.Close()
			return nil
		})
		log.Info("publishing enabled", "url", cfg.PublishURL, "rate", cfg.PublishRate)
	}

	a.Orchestrator = pipeline.NewOrchestrator(cfg, deps, log)
	return a, nil
}

// Close releases the manifest and publish connections. Stop the
// orchestrator first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
