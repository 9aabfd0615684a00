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

package ledger

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/blinklabs-io/slick/address"
)

// Clock supplies the current ledger time. Each operation reads the clock
// exactly once; all timestamps within one operation are identical.
type Clock interface {
	// Now returns the current time as unix seconds
	Now() int64
}

// SystemClock reads the host wall clock
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// Bank is the host's value-transfer primitive. Transfers either apply
// fully or fail with no effect; the engine layers compensating reversals
// on top when a storage commit fails after a transfer succeeded.
type Bank interface {
	Transfer(from, to address.Address, amount uint64) error
}

// MemoryBank is an in-process Bank with checked balance accounting
type MemoryBank struct {
	balances map[address.Address]uint64
	mu       sync.Mutex
}

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{
		balances: make(map[address.Address]uint64),
	}
}

// Credit adds funds to an identity's balance
func (b *MemoryBank) Credit(addr address.Address, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cur := b.balances[addr]
	if cur > math.MaxUint64-amount {
		return ErrArithmeticOverflow
	}
	b.balances[addr] = cur + amount
	return nil
}

// Balance returns an identity's current balance
func (b *MemoryBank) Balance(addr address.Address) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[addr]
}

// Transfer moves funds between identities. It fails with
// ErrInsufficientFunds when the sender cannot cover the amount.
func (b *MemoryBank) Transfer(from, to address.Address, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	fromBal := b.balances[from]
	if fromBal < amount {
		return fmt.Errorf(
			"%w: balance %d, needed %d",
			ErrInsufficientFunds,
			fromBal,
			amount,
		)
	}
	toBal := b.balances[to]
	if toBal > math.MaxUint64-amount {
		return ErrArithmeticOverflow
	}
	b.balances[from] = fromBal - amount
	b.balances[to] = toBal + amount
	return nil
}
