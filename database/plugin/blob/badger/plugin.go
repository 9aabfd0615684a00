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

package badger

import (
	"github.com/blinklabs-io/slick/database/plugin"
)

// Register plugin
func init() {
	plugin.Register(
		plugin.PluginEntry{
			Type:        plugin.PluginTypeBlob,
			Name:        "badger",
			Description: "BadgerDB local key-value store",
			NewFromConfigFunc: func(cfg plugin.Config) (plugin.Plugin, error) {
				return New(
					WithLogger(cfg.Logger),
					WithPromRegistry(cfg.PromRegistry),
					WithDataDir(cfg.DataDir),
					WithInMemory(cfg.InMemory),
				), nil
			},
		},
	)
}
