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

// Package plugin provides the registry for pluggable storage backends.
package plugin

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type PluginType int

const (
	PluginTypeBlob PluginType = iota
	PluginTypeMetadata
)

// PluginTypeName returns the human-readable name for a plugin type
func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// Config carries the common construction parameters for storage plugins
type Config struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	DataDir      string
	// InMemory requests a non-persistent store, used for testing
	InMemory bool
}

type Plugin interface {
	Start() error
	Stop() error
}

type PluginEntry struct {
	NewFromConfigFunc func(Config) (Plugin, error)
	Name              string
	Description       string
	Type              PluginType
}

var pluginEntries []PluginEntry

// Register adds a plugin entry to the registry. It is called from plugin
// package init functions.
func Register(entry PluginEntry) {
	pluginEntries = append(pluginEntries, entry)
}

// GetPlugins returns all registered plugins of the given type
func GetPlugins(pluginType PluginType) []PluginEntry {
	ret := []PluginEntry{}
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}

// GetPlugin returns the registered plugin entry with the given type and name
func GetPlugin(pluginType PluginType, name string) *PluginEntry {
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		if entry.Type == pluginType && entry.Name == name {
			return entry
		}
	}
	return nil
}

// StartPlugin constructs a plugin from the registry and starts it
func StartPlugin(
	pluginType PluginType,
	pluginName string,
	cfg Config,
) (Plugin, error) {
	entry := GetPlugin(pluginType, pluginName)
	if entry == nil {
		return nil, fmt.Errorf(
			"%s plugin '%s' not found",
			PluginTypeName(pluginType),
			pluginName,
		)
	}
	p, err := entry.NewFromConfigFunc(cfg)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to create %s plugin '%s': %w",
			PluginTypeName(pluginType),
			pluginName,
			err,
		)
	}
	if err := p.Start(); err != nil {
		return nil, fmt.Errorf(
			"failed to start %s plugin '%s': %w",
			PluginTypeName(pluginType),
			pluginName,
			err,
		)
	}
	return p, nil
}
