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

// Package api exposes the transition engine over a small REST surface.
// Write endpoints submit operations; the single read endpoint returns a
// decoded record by address.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/blinklabs-io/slick/ledger"
)

// Api is the REST API server.
type Api struct {
	config     ApiConfig
	logger     *slog.Logger
	ledger     *ledger.Ledger
	httpServer *http.Server
	mu         sync.Mutex
}

type ApiConfig struct {
	ListenAddress string
}

// New creates a new API server instance.
func New(
	cfg ApiConfig,
	l *ledger.Ledger,
	logger *slog.Logger,
) *Api {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":3000"
	}
	return &Api{
		config: cfg,
		logger: logger,
		ledger: l,
	}
}

// Handler returns the route mux for the API surface.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /v0/records/{address}", a.handleGetRecord)
	mux.HandleFunc("POST /v0/profiles", a.handleCreateProfile)
	mux.HandleFunc("PATCH /v0/profiles/{owner}", a.handleUpdateProfile)
	mux.HandleFunc("POST /v0/follows", a.handleFollow)
	mux.HandleFunc("DELETE /v0/follows", a.handleUnfollow)
	mux.HandleFunc("POST /v0/communities", a.handleCreateCommunity)
	mux.HandleFunc("POST /v0/memberships", a.handleJoinCommunity)
	mux.HandleFunc("DELETE /v0/memberships", a.handleLeaveCommunity)
	mux.HandleFunc("POST /v0/posts", a.handleCreatePost)
	mux.HandleFunc("POST /v0/likes", a.handleLikePost)
	mux.HandleFunc("DELETE /v0/likes", a.handleUnlikePost)
	mux.HandleFunc("POST /v0/comments", a.handleComment)
	mux.HandleFunc("POST /v0/tips", a.handleTip)
	mux.HandleFunc("POST /v0/polls", a.handleCreatePoll)
	mux.HandleFunc("POST /v0/votes", a.handleVote)
	return mux
}

// Start starts the HTTP server in a background goroutine.
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}
	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Start the server with deterministic error detection
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"API listener started on " + a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			a.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()

	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

// startServer starts the HTTP server with deterministic error detection.
// It binds the listening socket first so port conflicts are detected
// immediately, then serves in a background goroutine.
func (a *Api) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
