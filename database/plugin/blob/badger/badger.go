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

package badger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	blobDirName = "blob"

	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5
)

// BlobStoreBadger stores records in a local BadgerDB key-value store
type BlobStoreBadger struct {
	db           *badger.DB
	logger       *slog.Logger
	promRegistry prometheus.Registerer
	dataDir      string
	inMemory     bool
	gcEnabled    bool
	gcTicker     *time.Ticker
	gcStopCh     chan struct{}
	gcWg         sync.WaitGroup
	startMutex   sync.Mutex
	started      bool
}

// New creates a BlobStoreBadger with the given options
func New(opts ...BlobStoreBadgerOptionFunc) *BlobStoreBadger {
	b := &BlobStoreBadger{
		gcEnabled: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		b.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if b.inMemory {
		// GC only applies to the on-disk value log
		b.gcEnabled = false
	}
	return b
}

// DB returns the underlying badger database handle
func (b *BlobStoreBadger) DB() *badger.DB {
	return b.db
}

// NewTransaction starts a new badger transaction
func (b *BlobStoreBadger) NewTransaction(readWrite bool) *badger.Txn {
	return b.db.NewTransaction(readWrite)
}

// Start opens the database and starts background garbage collection
func (b *BlobStoreBadger) Start() error {
	b.startMutex.Lock()
	defer b.startMutex.Unlock()
	if b.started {
		return errors.New("blob store already started")
	}
	var badgerOpts badger.Options
	if b.inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if b.dataDir == "" {
			return errors.New("no data directory specified")
		}
		blobDir := filepath.Join(b.dataDir, blobDirName)
		if _, err := os.Stat(blobDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(blobDir, fs.ModePerm); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		badgerOpts = badger.DefaultOptions(blobDir)
	}
	badgerOpts = badgerOpts.
		WithLogger(newBadgerLogger(b.logger)).
		WithCompactL0OnClose(true)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return fmt.Errorf("failed to open blob store: %w", err)
	}
	b.db = db
	if b.gcEnabled {
		b.gcStopCh = make(chan struct{})
		b.gcTicker = time.NewTicker(gcInterval)
		b.gcWg.Add(1)
		go b.gcLoop()
	}
	b.started = true
	return nil
}

// Stop stops garbage collection and closes the database
func (b *BlobStoreBadger) Stop() error {
	b.startMutex.Lock()
	defer b.startMutex.Unlock()
	if !b.started {
		return nil
	}
	if b.gcTicker != nil {
		b.gcTicker.Stop()
		close(b.gcStopCh)
		b.gcWg.Wait()
		b.gcTicker = nil
	}
	b.started = false
	return b.db.Close()
}

// Close closes the database, stopping background tasks first
func (b *BlobStoreBadger) Close() error {
	return b.Stop()
}

func (b *BlobStoreBadger) gcLoop() {
	defer b.gcWg.Done()
	for {
		select {
		case <-b.gcStopCh:
			return
		case <-b.gcTicker.C:
			// Repeat GC until it reports nothing left to collect
			for {
				err := b.db.RunValueLogGC(gcDiscardRatio)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						b.logger.Warn(
							fmt.Sprintf("blob DB: GC failure: %s", err),
							"component", "database",
						)
					}
					break
				}
			}
		}
	}
}

// badgerLogger adapts slog to the badger.Logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func newBadgerLogger(logger *slog.Logger) *badgerLogger {
	return &badgerLogger{
		logger: logger.With("component", "badger"),
	}
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	// Badger is chatty at info level; keep it at debug
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
