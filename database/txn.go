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

package database

import (
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
)

// Txn wraps a blob store transaction. Every engine operation runs inside
// one read-write Txn: all record reads and writes of the operation commit
// together or not at all.
type Txn struct {
	db        *Database
	blobTxn   *badger.Txn
	lock      sync.Mutex
	finished  bool
	readWrite bool
}

func NewTxn(db *Database, readWrite bool) *Txn {
	return &Txn{
		db:        db,
		blobTxn:   db.Blob().NewTransaction(readWrite),
		readWrite: readWrite,
	}
}

func (t *Txn) DB() *Database {
	return t.db
}

// Do executes the specified function in the context of the transaction.
// Any error returned results in the transaction being rolled back.
func (t *Txn) Do(fn func(*Txn) error) error {
	if err := fn(t); err != nil {
		if err2 := t.Rollback(); err2 != nil {
			return fmt.Errorf(
				"rollback failed: %w: original error: %w",
				err2,
				err,
			)
		}
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (t *Txn) Commit() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return nil
	}
	t.finished = true
	// No need to commit for read-only, but we do want to free up resources
	if !t.readWrite {
		t.blobTxn.Discard()
		return nil
	}
	return t.blobTxn.Commit()
}

func (t *Txn) Rollback() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return nil
	}
	t.finished = true
	t.blobTxn.Discard()
	return nil
}
