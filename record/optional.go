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

package record

import (
	"encoding/json"

	"github.com/blinklabs-io/slick/address"
)

// OptionalAddress is a tagged present/absent identity value. A post's
// author uses this rather than a nullable pointer so that every consumer
// has to handle the absent (anonymous) case explicitly.
type OptionalAddress struct {
	addr address.Address
	set  bool
}

func SomeAddress(addr address.Address) OptionalAddress {
	return OptionalAddress{addr: addr, set: true}
}

func NoAddress() OptionalAddress {
	return OptionalAddress{}
}

// Value returns the address and whether it is present.
func (o OptionalAddress) Value() (address.Address, bool) {
	return o.addr, o.set
}

func (o OptionalAddress) IsSet() bool {
	return o.set
}

// MarshalJSON renders the address as a hex string, or null when absent
func (o OptionalAddress) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.addr)
}

// UnmarshalJSON accepts a hex string or null
func (o *OptionalAddress) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = NoAddress()
		return nil
	}
	var addr address.Address
	if err := json.Unmarshal(data, &addr); err != nil {
		return err
	}
	*o = SomeAddress(addr)
	return nil
}

// OptionalString is a tagged present/absent string value, used for the
// pseudonym on anonymous posts.
type OptionalString struct {
	val string
	set bool
}

func SomeString(val string) OptionalString {
	return OptionalString{val: val, set: true}
}

func NoString() OptionalString {
	return OptionalString{}
}

// Value returns the string and whether it is present.
func (o OptionalString) Value() (string, bool) {
	return o.val, o.set
}

func (o OptionalString) IsSet() bool {
	return o.set
}

// MarshalJSON renders the string, or null when absent
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.val)
}

// UnmarshalJSON accepts a string or null
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = NoString()
		return nil
	}
	var val string
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	*o = SomeString(val)
	return nil
}
