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

// Package models defines the metadata store schema.
package models

// Event is one journaled engine notification. Rows are append-only; the
// auto-incremented ID provides a total order over emitted events.
type Event struct {
	ID        uint   `gorm:"primarykey"`
	Type      string `gorm:"index"`
	Actor     string `gorm:"index"`
	Payload   []byte
	Timestamp int64
}

func (Event) TableName() string {
	return "event"
}
