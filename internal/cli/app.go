// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/finai/internal/attach"
	"github.com/jeranaias/finai/internal/config"
	"github.com/jeranaias/finai/internal/dispatch"
	"github.com/jeranaias/finai/internal/gemini"
	"github.com/jeranaias/finai/internal/logging"
	"github.com/jeranaias/finai/internal/store"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

// App is everything a chat front end needs, wired from config.
type App struct {
	Config     *config.Config
	ConfigPath string
	Log        zerolog.Logger

	Store      *store.Store
	Client     *gemini.Client
	Dispatcher *dispatch.Dispatcher

	logCloser io.Closer
}

// NewApp loads config, opens the log and builds the shared components.
func NewApp(opts GlobalOptions) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
			return nil, errors.Wrap(err, "--log-level")
		}
		cfg.Log.Level = opts.LogLevel
	}

	logPath := cfg.Log.Path
	if logPath == "" {
		if logPath, err = config.DefaultLogPath(); err != nil {
			return nil, err
		}
	}
	logger, closer, err := logging.Setup(logging.Options{Level: cfg.Log.Level, Path: logPath})
	if err != nil {
		return nil, errors.Wrap(err, "set up logging")
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath, _ = config.ConfigPath()
	}

	return newAppWithConfig(cfg, configPath, logger, closer), nil
}

// newAppWithConfig builds the components for an already loaded config.
func newAppWithConfig(cfg *config.Config, configPath string, logger zerolog.Logger, closer io.Closer) *App {
	st := store.New()
	client := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Endpoint, logger).
		WithTimeout(cfg.Gemini.Timeout())
	d := dispatch.New(st, client, logger)

	if !cfg.HasAPIKey() {
		logger.Warn().Msg("no Gemini API key configured; replies will fail until one is set")
	}
	logger.Info().
		Str("endpoint", client.Endpoint()).
		Str("config", configPath).
		Msg("finai starting")

	return &App{
		Config:     cfg,
		ConfigPath: configPath,
		Log:        logger,
		Store:      st,
		Client:     client,
		Dispatcher: d,
		logCloser:  closer,
	}
}

// NewIntake builds attachment intake over a path source. Documents are
// copied into the configured cache directory.
func (a *App) NewIntake(src attach.PathSource) *attach.Intake {
	picker := attach.NewFilePicker(src, a.Config.Attachments.CacheDir)
	return attach.NewIntake(a.Store, picker, picker, a.Log)
}

// WatchConfig re-keys the Gemini client whenever the config file changes.
// notify, if set, is told about each reload. A config directory that does
// not exist yet is not an error; there is simply nothing to watch.
func (a *App) WatchConfig(notify func(error)) io.Closer {
	if a.ConfigPath == "" {
		return nopCloser{}
	}
	w, err := config.Watch(a.ConfigPath, func(cfg *config.Config, err error) {
		if err != nil {
			a.Log.Warn().Err(err).Msg("config reload failed")
		} else {
			a.Client.SetAPIKey(cfg.Gemini.APIKey)
			a.Log.Info().Bool("api_key", cfg.HasAPIKey()).Msg("config reloaded")
		}
		if notify != nil {
			notify(err)
		}
	})
	if err != nil {
		a.Log.Debug().Err(err).Str("path", a.ConfigPath).Msg("config watch disabled")
		return nopCloser{}
	}
	return w
}

// Close flushes the log.
func (a *App) Close() error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
