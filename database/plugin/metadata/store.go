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

package metadata

import (
	"fmt"

	"github.com/blinklabs-io/slick/database/models"
	"github.com/blinklabs-io/slick/database/plugin"
)

// MetadataStore holds the durable event journal
type MetadataStore interface {
	Close() error
	// AppendEvent adds an event to the journal
	AppendEvent(*models.Event) error
	// EventsByType returns journaled events of the given type, oldest first
	EventsByType(eventType string, limit int) ([]models.Event, error)
	// RecentEvents returns the newest journaled events, newest first
	RecentEvents(limit int) ([]models.Event, error)
}

// New returns the started metadata plugin selected by name
func New(pluginName string, cfg plugin.Config) (MetadataStore, error) {
	p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName, cfg)
	if err != nil {
		return nil, err
	}
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}
	return metadataStore, nil
}
