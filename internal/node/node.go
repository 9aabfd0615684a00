// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package node assembles the configured service: storage, event bus,
// transition engine, event journal, REST API and metrics listener.
package node

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/blinklabs-io/slick/api"
	"github.com/blinklabs-io/slick/database"
	"github.com/blinklabs-io/slick/event"
	"github.com/blinklabs-io/slick/internal/config"
	"github.com/blinklabs-io/slick/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")

	// Parse shutdown timeout
	shutdownTimeout := 30 * time.Second
	if cfg.ShutdownTimeout != "" {
		var err error
		shutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}

	db, err := database.New(
		database.Config{
			Logger:         logger,
			PromRegistry:   prometheus.DefaultRegisterer,
			DataDir:        cfg.DatabasePath,
			BlobPlugin:     cfg.BlobPlugin,
			MetadataPlugin: cfg.MetadataPlugin,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	eventBus := event.NewEventBus(prometheus.DefaultRegisterer, logger)

	l, err := ledger.NewLedger(
		ledger.LedgerConfig{
			Logger:       logger,
			EventBus:     eventBus,
			PromRegistry: prometheus.DefaultRegisterer,
			Database:     db,
			RentPerByte:  cfg.RentPerByte,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}

	// Persist every engine event to the metadata journal
	journal := NewJournal(db, logger)
	journal.Start(eventBus)

	apiServer := api.New(
		api.ApiConfig{
			ListenAddress: fmt.Sprintf(
				"%s:%d",
				cfg.BindAddr,
				cfg.ApiPort,
			),
		},
		l,
		logger,
	)

	// Wait for interrupt/termination signal
	signalCtx, signalCtxStop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()

	if err := apiServer.Start(signalCtx); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	// Metrics listener
	http.Handle("/metrics", promhttp.Handler())
	logger.Info(
		"serving prometheus metrics on "+fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		"component", "node",
	)
	metricsServer := &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error(
				fmt.Sprintf("failed to start metrics listener: %s", err),
				"component", "node",
			)
			os.Exit(1)
		}
	}()

	<-signalCtx.Done()
	logger.Info("signal received, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		shutdownTimeout,
	)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("API server shutdown error", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "error", err)
	}
	eventBus.Stop()
	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}
