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

// Package ledger implements the validated transition engine for the social
// graph. Each operation is a single synchronous, all-or-nothing unit of
// work: record addresses are re-derived from seeds, current state is
// loaded, validation runs, new state is written (or a record removed), and
// an event is emitted. There is no intermediate observable state and no
// internal locking; serialization of operations that touch overlapping
// records is the storage transaction's concern.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/database"
	"github.com/blinklabs-io/slick/event"
	"github.com/blinklabs-io/slick/record"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultRentPerByte is the storage rent charged per allocated byte.
// Allocation is sized from the entity's maximum serialized size, so rent
// for a given entity type is a fixed amount, which makes the refund on
// removal deterministic without storing the charged amount.
const DefaultRentPerByte uint64 = 10

// RentEscrow is the identity holding storage rent while records exist.
// Removing a record refunds its rent from escrow to the reclaiming party.
var RentEscrow = address.Derive("escrow", []byte("storage-rent"))

type LedgerConfig struct {
	Logger       *slog.Logger
	EventBus     *event.EventBus
	PromRegistry prometheus.Registerer
	Database     *database.Database
	Clock        Clock
	Bank         Bank
	// RentPerByte overrides DefaultRentPerByte when non-zero
	RentPerByte uint64
}

type Ledger struct {
	logger      *slog.Logger
	eventBus    *event.EventBus
	db          *database.Database
	clock       Clock
	bank        Bank
	rentPerByte uint64
	metrics     struct {
		opsTotal     *prometheus.CounterVec
		recordsAlloc *prometheus.CounterVec
		recordsFreed *prometheus.CounterVec
	}
}

// NewLedger creates a transition engine over the given storage and host
// environment
func NewLedger(cfg LedgerConfig) (*Ledger, error) {
	if cfg.Database == nil {
		return nil, errors.New("no database provided")
	}
	l := &Ledger{
		logger:      cfg.Logger,
		eventBus:    cfg.EventBus,
		db:          cfg.Database,
		clock:       cfg.Clock,
		bank:        cfg.Bank,
		rentPerByte: cfg.RentPerByte,
	}
	if l.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		l.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if l.clock == nil {
		l.clock = SystemClock{}
	}
	if l.bank == nil {
		l.bank = NewMemoryBank()
	}
	if l.rentPerByte == 0 {
		l.rentPerByte = DefaultRentPerByte
	}
	promautoFactory := promauto.With(cfg.PromRegistry)
	l.metrics.opsTotal = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slick_ledger_operations_total",
			Help: "total operations processed by name and outcome",
		},
		[]string{"op", "outcome"},
	)
	l.metrics.recordsAlloc = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slick_ledger_records_allocated_total",
			Help: "total records allocated by kind",
		},
		[]string{"kind"},
	)
	l.metrics.recordsFreed = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slick_ledger_records_freed_total",
			Help: "total records freed by kind",
		},
		[]string{"kind"},
	)
	return l, nil
}

// Database returns the underlying database instance
func (l *Ledger) Database() *database.Database {
	return l.db
}

type transfer struct {
	from   address.Address
	to     address.Address
	amount uint64
}

type emittedEvent struct {
	payload   any
	eventType event.EventType
}

// opResult accumulates the side effects of an operation: events published
// and value transfers executed only after validation succeeds.
type opResult struct {
	events    []emittedEvent
	transfers []transfer
	allocated []record.Kind
	freed     []record.Kind
}

func (r *opResult) emit(eventType event.EventType, payload any) {
	r.events = append(
		r.events,
		emittedEvent{eventType: eventType, payload: payload},
	)
}

// runOp executes an operation as one atomic unit. The operation function
// performs all reads, validation and record writes inside the transaction;
// accumulated value transfers execute after validation, and the storage
// commit follows. A transfer failure rolls back the transaction; a commit
// failure after transfers have executed triggers compensating reverse
// transfers so that value movement and record state stay consistent.
func (l *Ledger) runOp(
	opName string,
	fn func(txn *database.Txn, now int64, res *opResult) error,
) error {
	now := l.clock.Now()
	res := &opResult{}
	txn := l.db.Transaction(true)
	if err := fn(txn, now, res); err != nil {
		if err2 := txn.Rollback(); err2 != nil {
			l.logger.Error(
				"rollback failed",
				"op", opName,
				"error", err2,
				"component", "ledger",
			)
		}
		l.countOp(opName, err)
		return err
	}
	var executed []transfer
	for _, tr := range res.transfers {
		if err := l.bank.Transfer(tr.from, tr.to, tr.amount); err != nil {
			l.reverseTransfers(executed)
			if err2 := txn.Rollback(); err2 != nil {
				l.logger.Error(
					"rollback failed",
					"op", opName,
					"error", err2,
					"component", "ledger",
				)
			}
			l.countOp(opName, err)
			return err
		}
		executed = append(executed, tr)
	}
	if err := txn.Commit(); err != nil {
		// Compensating rollback: the storage commit failed after value
		// moved, so reverse the transfers to restore balances
		l.reverseTransfers(executed)
		err = fmt.Errorf("commit failed: %w", err)
		l.countOp(opName, err)
		return err
	}
	for _, kind := range res.allocated {
		l.metrics.recordsAlloc.WithLabelValues(string(kind)).Inc()
	}
	for _, kind := range res.freed {
		l.metrics.recordsFreed.WithLabelValues(string(kind)).Inc()
	}
	if l.eventBus != nil {
		for _, evt := range res.events {
			l.eventBus.Publish(
				evt.eventType,
				event.NewEvent(evt.eventType, evt.payload),
			)
		}
	}
	l.countOp(opName, nil)
	l.logger.Debug(
		"applied operation",
		"op", opName,
		"component", "ledger",
	)
	return nil
}

func (l *Ledger) countOp(opName string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	l.metrics.opsTotal.WithLabelValues(opName, outcome).Inc()
}

func (l *Ledger) reverseTransfers(executed []transfer) {
	for i := len(executed) - 1; i >= 0; i-- {
		tr := executed[i]
		if err := l.bank.Transfer(tr.to, tr.from, tr.amount); err != nil {
			// Nothing more we can do; balances are now inconsistent
			l.logger.Error(
				"compensating transfer failed",
				"from", tr.to,
				"to", tr.from,
				"amount", tr.amount,
				"error", err,
				"component", "ledger",
			)
		}
	}
}

func (l *Ledger) rentFor(maxSize int) uint64 {
	return l.rentPerByte * uint64(maxSize) // #nosec G115
}

// createRecord allocates a new record at addr, charging the payer rent
// sized from the entity's maximum serialized size. The host refuses the
// allocation when the payer cannot fund it (surfaced when the accumulated
// transfers execute).
func (l *Ledger) createRecord(
	txn *database.Txn,
	res *opResult,
	payer address.Address,
	addr address.Address,
	rec record.Record,
) error {
	if err := txn.CreateRecord(addr, rec.Encode()); err != nil {
		return err
	}
	if rent := l.rentFor(rec.MaxSize()); rent > 0 {
		res.transfers = append(
			res.transfers,
			transfer{from: payer, to: RentEscrow, amount: rent},
		)
	}
	res.allocated = append(res.allocated, rec.Kind())
	return nil
}

// freeRecord removes a record, refunding its rent from escrow to the
// reclaiming party
func (l *Ledger) freeRecord(
	txn *database.Txn,
	res *opResult,
	recipient address.Address,
	addr address.Address,
	kind record.Kind,
	maxSize int,
) error {
	if err := txn.DeleteRecord(addr); err != nil {
		return err
	}
	if rent := l.rentFor(maxSize); rent > 0 {
		res.transfers = append(
			res.transfers,
			transfer{from: RentEscrow, to: recipient, amount: rent},
		)
	}
	res.freed = append(res.freed, kind)
	return nil
}

// Checked arithmetic helpers. Counters near their representable limit fail
// loudly rather than saturating or wrapping.

func checkedAddU64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrArithmeticOverflow
	}
	return a + b, nil
}

func checkedSubU64(a, b uint64) (uint64, error) {
	if a < b {
		return 0, ErrArithmeticUnderflow
	}
	return a - b, nil
}

func checkedAddU32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, ErrArithmeticOverflow
	}
	return a + b, nil
}

// Record loaders. Each loads and decodes a record and verifies the
// supplied address against its expected derivation (the binding check), so
// a caller cannot pass off one record as another.

func (l *Ledger) loadProfile(
	txn *database.Txn,
	addr address.Address,
) (*record.Profile, error) {
	data, err := txn.GetRecord(addr)
	if err != nil {
		return nil, err
	}
	profile, err := record.DecodeProfile(data)
	if err != nil {
		return nil, err
	}
	if record.ProfileAddress(profile.Owner) != addr {
		return nil, fmt.Errorf("%w: profile %s", ErrAddressMismatch, addr)
	}
	return profile, nil
}

func (l *Ledger) loadCommunity(
	txn *database.Txn,
	addr address.Address,
) (*record.Community, error) {
	data, err := txn.GetRecord(addr)
	if err != nil {
		return nil, err
	}
	community, err := record.DecodeCommunity(data)
	if err != nil {
		return nil, err
	}
	if record.CommunityAddress(community.CommunityID) != addr {
		return nil, fmt.Errorf("%w: community %s", ErrAddressMismatch, addr)
	}
	return community, nil
}

func (l *Ledger) loadMembership(
	txn *database.Txn,
	addr address.Address,
) (*record.Membership, error) {
	data, err := txn.GetRecord(addr)
	if err != nil {
		return nil, err
	}
	membership, err := record.DecodeMembership(data)
	if err != nil {
		return nil, err
	}
	if record.MembershipAddress(membership.Community, membership.User) != addr {
		return nil, fmt.Errorf("%w: membership %s", ErrAddressMismatch, addr)
	}
	return membership, nil
}

func (l *Ledger) loadPost(
	txn *database.Txn,
	addr address.Address,
) (*record.Post, error) {
	data, err := txn.GetRecord(addr)
	if err != nil {
		return nil, err
	}
	post, err := record.DecodePost(data)
	if err != nil {
		return nil, err
	}
	if record.PostAddress(post.Community, post.PostID) != addr {
		return nil, fmt.Errorf("%w: post %s", ErrAddressMismatch, addr)
	}
	return post, nil
}

func (l *Ledger) loadPoll(
	txn *database.Txn,
	addr address.Address,
) (*record.Poll, error) {
	data, err := txn.GetRecord(addr)
	if err != nil {
		return nil, err
	}
	poll, err := record.DecodePoll(data)
	if err != nil {
		return nil, err
	}
	if record.PollAddress(poll.Community, poll.PollID) != addr {
		return nil, fmt.Errorf("%w: poll %s", ErrAddressMismatch, addr)
	}
	return poll, nil
}

// requireMembership verifies the user holds a membership record in the
// community
func (l *Ledger) requireMembership(
	txn *database.Txn,
	community, user address.Address,
) error {
	exists, err := txn.RecordExists(
		record.MembershipAddress(community, user),
	)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf(
			"%w: %s is not a member of %s",
			ErrMembershipRequired,
			user,
			community,
		)
	}
	return nil
}
