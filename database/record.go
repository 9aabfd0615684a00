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
	"errors"
	"fmt"

	"github.com/blinklabs-io/slick/address"
	badger "github.com/dgraph-io/badger/v4"
)

const recordKeyPrefix = "r"

// ErrRecordNotFound is returned when no record exists at an address
var ErrRecordNotFound = errors.New("record not found")

// ErrRecordExists is returned when creating a record at an occupied
// address. This is the duplicate-relation failure: the derived address is
// the only uniqueness index.
var ErrRecordExists = errors.New("record already exists")

// RecordKey builds the blob store key for a record address
func RecordKey(addr address.Address) []byte {
	key := []byte(recordKeyPrefix)
	key = append(key, addr.Bytes()...)
	return key
}

// GetRecord returns the serialized record at an address
func (t *Txn) GetRecord(addr address.Address) ([]byte, error) {
	item, err := t.blobTxn.Get(RecordKey(addr))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, addr)
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

// RecordExists reports whether a record exists at an address
func (t *Txn) RecordExists(addr address.Address) (bool, error) {
	_, err := t.blobTxn.Get(RecordKey(addr))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateRecord stores a record at a previously unoccupied address. It
// fails with ErrRecordExists when the address is already allocated.
func (t *Txn) CreateRecord(addr address.Address, data []byte) error {
	exists, err := t.RecordExists(addr)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrRecordExists, addr)
	}
	return t.blobTxn.Set(RecordKey(addr), data)
}

// UpdateRecord overwrites an existing record in place
func (t *Txn) UpdateRecord(addr address.Address, data []byte) error {
	exists, err := t.RecordExists(addr)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, addr)
	}
	return t.blobTxn.Set(RecordKey(addr), data)
}

// DeleteRecord removes the record at an address, freeing the address slot
// for re-derivation
func (t *Txn) DeleteRecord(addr address.Address) error {
	exists, err := t.RecordExists(addr)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, addr)
	}
	return t.blobTxn.Delete(RecordKey(addr))
}

// GetRecord is a convenience read outside any caller-managed transaction
func (d *Database) GetRecord(addr address.Address) ([]byte, error) {
	txn := d.Transaction(false)
	defer func() {
		_ = txn.Rollback()
	}()
	return txn.GetRecord(addr)
}
