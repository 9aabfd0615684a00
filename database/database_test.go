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

package database_test

import (
	"testing"

	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/database"
	"github.com/blinklabs-io/slick/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(
		database.Config{
			InMemory: true,
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %s", err)
		}
	})
	return db
}

func TestRecordLifecycle(t *testing.T) {
	db := testDatabase(t)
	addr := address.Derive("test", []byte("record-1"))
	data := []byte("test-record-data")

	// Create
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		return txn.CreateRecord(addr, data)
	})
	require.NoError(t, err)

	// Read back
	got, err := db.GetRecord(addr)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// Duplicate create fails
	txn = db.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		return txn.CreateRecord(addr, data)
	})
	require.ErrorIs(t, err, database.ErrRecordExists)

	// Delete frees the address slot
	txn = db.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		return txn.DeleteRecord(addr)
	})
	require.NoError(t, err)
	_, err = db.GetRecord(addr)
	require.ErrorIs(t, err, database.ErrRecordNotFound)

	// Re-creation is possible after the slot is freed
	txn = db.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		return txn.CreateRecord(addr, data)
	})
	require.NoError(t, err)
}

func TestRecordUpdateMissing(t *testing.T) {
	db := testDatabase(t)
	addr := address.Derive("test", []byte("missing"))
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		return txn.UpdateRecord(addr, []byte("data"))
	})
	require.ErrorIs(t, err, database.ErrRecordNotFound)
}

func TestTxnRollback(t *testing.T) {
	db := testDatabase(t)
	addr := address.Derive("test", []byte("rollback"))
	txn := db.Transaction(true)
	require.NoError(t, txn.CreateRecord(addr, []byte("data")))
	require.NoError(t, txn.Rollback())
	_, err := db.GetRecord(addr)
	require.ErrorIs(t, err, database.ErrRecordNotFound)
}

func TestEventJournal(t *testing.T) {
	db := testDatabase(t)
	for _, evtType := range []string{"post.created", "post.liked", "post.created"} {
		err := db.Metadata().AppendEvent(
			&models.Event{
				Type:      evtType,
				Actor:     "test-actor",
				Payload:   []byte(`{}`),
				Timestamp: 1700000000,
			},
		)
		require.NoError(t, err)
	}
	events, err := db.Metadata().EventsByType("post.created", 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	recent, err := db.Metadata().RecentEvents(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// Newest first
	assert.Greater(t, recent[0].ID, recent[1].ID)
}
