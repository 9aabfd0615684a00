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

// Package database provides record storage for the transition engine: a
// blob store holding records keyed by derived address, and a metadata
// store holding the event journal.
package database

import (
	"errors"
	"io"
	"log/slog"

	"github.com/blinklabs-io/slick/database/plugin"
	"github.com/blinklabs-io/slick/database/plugin/blob"
	"github.com/blinklabs-io/slick/database/plugin/metadata"
	"github.com/prometheus/client_golang/prometheus"

	// Register storage plugins
	_ "github.com/blinklabs-io/slick/database/plugin/blob/badger"
	_ "github.com/blinklabs-io/slick/database/plugin/metadata/sqlite"
)

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

type Database struct {
	logger   *slog.Logger
	blob     blob.BlobStore
	metadata metadata.MetadataStore
	dataDir  string
}

// Config describes how to open a Database
type Config struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	DataDir      string
	// BlobPlugin and MetadataPlugin select storage backends by name and
	// default to badger and sqlite
	BlobPlugin     string
	MetadataPlugin string
	// InMemory opens non-persistent stores, used for testing
	InMemory bool
}

// New opens a database instance using the configured storage plugins
func New(cfg Config) (*Database, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.BlobPlugin == "" {
		cfg.BlobPlugin = DefaultBlobPlugin
	}
	if cfg.MetadataPlugin == "" {
		cfg.MetadataPlugin = DefaultMetadataPlugin
	}
	pluginCfg := plugin.Config{
		Logger:       cfg.Logger,
		PromRegistry: cfg.PromRegistry,
		DataDir:      cfg.DataDir,
		InMemory:     cfg.InMemory,
	}
	blobDb, err := blob.New(cfg.BlobPlugin, pluginCfg)
	if err != nil {
		return nil, err
	}
	metadataDb, err := metadata.New(cfg.MetadataPlugin, pluginCfg)
	if err != nil {
		// Don't leak the already-opened blob store
		blobErr := blobDb.Close()
		return nil, errors.Join(err, blobErr)
	}
	db := &Database{
		logger:   cfg.Logger,
		blob:     blobDb,
		metadata: metadataDb,
		dataDir:  cfg.DataDir,
	}
	return db, nil
}

// Blob returns the underlying blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	metadataErr := d.metadata.Close()
	err = errors.Join(err, metadataErr)
	blobErr := d.blob.Close()
	err = errors.Join(err, blobErr)
	return err
}
