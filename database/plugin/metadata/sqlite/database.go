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

package sqlite

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blinklabs-io/slick/database/models"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const metadataDbName = "metadata.sqlite"

// MetadataStoreSqlite persists the event journal in a SQLite database.
// An empty data directory selects an in-memory database, useful for
// testing.
type MetadataStoreSqlite struct {
	db           *gorm.DB
	logger       *slog.Logger
	promRegistry prometheus.Registerer
	dataDir      string
	startMutex   sync.Mutex
	started      bool
}

// New creates a MetadataStoreSqlite
func New(
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) *MetadataStoreSqlite {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &MetadataStoreSqlite{
		logger:       logger,
		promRegistry: promRegistry,
		dataDir:      dataDir,
	}
}

// Start opens the database and runs schema migration
func (d *MetadataStoreSqlite) Start() error {
	d.startMutex.Lock()
	defer d.startMutex.Unlock()
	if d.started {
		return errors.New("metadata store already started")
	}
	var metadataDb *gorm.DB
	var err error
	if d.dataDir == "" {
		// cache=shared allows multiple connections to share the same in-memory database
		metadataDb, err = gorm.Open(
			sqlite.Open("file::memory:?cache=shared"),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(d.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(d.dataDir, fs.ModePerm); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		metadataDbPath := filepath.Join(d.dataDir, metadataDbName)
		// WAL journal mode, disable sync on write
		metadataConnOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)"
		metadataDb, err = gorm.Open(
			sqlite.Open(
				fmt.Sprintf("file:%s?%s", metadataDbPath, metadataConnOpts),
			),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return err
		}
	}
	d.db = metadataDb
	if err := d.db.AutoMigrate(&models.Event{}); err != nil {
		return fmt.Errorf("failed to migrate metadata schema: %w", err)
	}
	d.started = true
	return nil
}

// Stop closes the database
func (d *MetadataStoreSqlite) Stop() error {
	d.startMutex.Lock()
	defer d.startMutex.Unlock()
	if !d.started {
		return nil
	}
	d.started = false
	sqlDb, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}

// Close closes the database
func (d *MetadataStoreSqlite) Close() error {
	return d.Stop()
}

// AppendEvent adds an event to the journal
func (d *MetadataStoreSqlite) AppendEvent(evt *models.Event) error {
	if result := d.db.Create(evt); result.Error != nil {
		return result.Error
	}
	return nil
}

// EventsByType returns journaled events of the given type, oldest first
func (d *MetadataStoreSqlite) EventsByType(
	eventType string,
	limit int,
) ([]models.Event, error) {
	var ret []models.Event
	result := d.db.
		Where("type = ?", eventType).
		Order("id").
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// RecentEvents returns the newest journaled events, newest first
func (d *MetadataStoreSqlite) RecentEvents(limit int) ([]models.Event, error) {
	var ret []models.Event
	result := d.db.
		Order("id desc").
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
