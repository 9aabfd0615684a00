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

// Package address implements deterministic record address derivation.
//
// Every record in the ledger is keyed by an address computed from an
// entity-type tag and an ordered list of seed values. The same tuple always
// derives the same address, and tuples that differ in any seed (or in the
// tag) derive distinct addresses. Uniqueness of the derived address is the
// only duplicate-relation guard in the system, so the derivation must be
// collision-free across entity types. Each tag and seed is framed with its
// length before hashing so that adjacent seeds cannot be reassociated.
package address

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Size is the length in bytes of a derived address.
const Size = 32

// Address is a 32-byte derived record address. Identities (wallet public
// keys) share the same 32-byte key space and use the same type.
type Address [Size]byte

// Zero is the all-zero address. It is never a valid derivation result for
// practical purposes and is used as the "absent" value.
var Zero = Address{}

var ErrInvalidAddress = errors.New("invalid address")

// String returns the hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero returns true when the address is the all-zero value.
func (a Address) IsZero() bool {
	return a == Zero
}

// MarshalText implements encoding.TextMarshaler, rendering the address as
// hex for JSON payloads and log output.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	tmp, err := FromString(string(text))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

// FromBytes converts a 32-byte slice into an Address.
func FromBytes(data []byte) (Address, error) {
	if len(data) != Size {
		return Zero, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidAddress,
			Size,
			len(data),
		)
	}
	var ret Address
	copy(ret[:], data)
	return ret, nil
}

// FromString parses a hex-encoded address.
func FromString(s string) (Address, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	return FromBytes(data)
}

// Derive computes the address for the given entity tag and ordered seeds.
// The derivation is a BLAKE2b-256 hash over the length-framed tag followed
// by each length-framed seed. Length framing keeps distinct seed tuples from
// colliding when their concatenations would be equal.
func Derive(tag string, seeds ...[]byte) Address {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails with a key larger than 64 bytes
		panic(err)
	}
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(tag)))
	h.Write(lenBuf[:n])
	h.Write([]byte(tag))
	for _, seed := range seeds {
		n = binary.PutUvarint(lenBuf[:], uint64(len(seed)))
		h.Write(lenBuf[:n])
		h.Write(seed)
	}
	var ret Address
	copy(ret[:], h.Sum(nil))
	return ret
}

// Bind reports whether a caller-supplied address matches the expected
// derivation for the given tag and seeds. Creating operations must derive
// addresses themselves; Bind is the check applied to addresses supplied for
// existing records.
func Bind(supplied Address, tag string, seeds ...[]byte) bool {
	return supplied == Derive(tag, seeds...)
}

// Uint64Seed encodes a counter value as an 8-byte little-endian seed.
func Uint64Seed(val uint64) []byte {
	ret := make([]byte, 8)
	binary.LittleEndian.PutUint64(ret, val)
	return ret
}
