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

package node

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/blinklabs-io/slick/database"
	"github.com/blinklabs-io/slick/database/models"
	"github.com/blinklabs-io/slick/event"
	"github.com/blinklabs-io/slick/ledger"
)

// Journal persists engine events to the metadata store for later query.
// Persistence is best effort and happens off the operation path; a write
// failure is logged and does not affect the operation that emitted the
// event.
type Journal struct {
	db     *database.Database
	logger *slog.Logger
}

func NewJournal(db *database.Database, logger *slog.Logger) *Journal {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Journal{
		db:     db,
		logger: logger.With("component", "journal"),
	}
}

// Start subscribes the journal to every engine event type
func (j *Journal) Start(eventBus *event.EventBus) {
	for _, eventType := range ledger.EventTypes() {
		eventBus.SubscribeFunc(eventType, j.persist)
	}
}

func (j *Journal) persist(evt event.Event) {
	payload, err := json.Marshal(evt.Data)
	if err != nil {
		j.logger.Error(
			"failed to marshal event payload",
			"type", evt.Type,
			"error", err,
		)
		return
	}
	entry := &models.Event{
		Type:      string(evt.Type),
		Payload:   payload,
		Timestamp: evt.Timestamp.Unix(),
	}
	if data, ok := evt.Data.(ledger.EventPayload); ok {
		entry.Actor = data.ActingIdentity().String()
	}
	if err := j.db.Metadata().AppendEvent(entry); err != nil {
		j.logger.Error(
			"failed to persist event",
			"type", evt.Type,
			"error", err,
		)
	}
}
