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

// Package record defines the persisted shape of every ledger entity.
//
// Each record serializes to an 8-byte kind discriminator followed by its
// fields in declaration order: little-endian integers, u32-length-prefixed
// bounded strings, 1-byte presence flags for optional fields. All bounded
// fields have hard ceilings, so every entity has a fixed maximum serialized
// size that storage allocation is computed from. Records are never resized
// after creation.
package record

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Kind identifies an entity type. The kind string doubles as the address
// derivation tag for that entity's seed tuple.
type Kind string

const (
	KindProfile    Kind = "profile"
	KindCommunity  Kind = "community"
	KindMembership Kind = "membership"
	KindPost       Kind = "post"
	KindLike       Kind = "like"
	KindComment    Kind = "comment"
	KindFollow     Kind = "follow"
	KindPoll       Kind = "poll"
	KindVote       Kind = "vote"
)

// DiscriminatorSize is the length of the kind discriminator prefix.
const DiscriminatorSize = 8

var (
	ErrUnknownKind   = errors.New("unknown record kind")
	ErrCorruptRecord = errors.New("corrupt record")
	ErrWrongKind     = errors.New("record has wrong kind")
)

var discriminators = map[Kind][DiscriminatorSize]byte{}

func init() {
	for _, k := range []Kind{
		KindProfile,
		KindCommunity,
		KindMembership,
		KindPost,
		KindLike,
		KindComment,
		KindFollow,
		KindPoll,
		KindVote,
	} {
		sum := blake2b.Sum256([]byte("slick:record:" + string(k)))
		var disc [DiscriminatorSize]byte
		copy(disc[:], sum[:DiscriminatorSize])
		discriminators[k] = disc
	}
}

// Discriminator returns the 8-byte discriminator prefix for the kind.
func (k Kind) Discriminator() [DiscriminatorSize]byte {
	disc, ok := discriminators[k]
	if !ok {
		panic(fmt.Sprintf("unknown record kind: %s", k))
	}
	return disc
}

// Record is implemented by every persisted entity.
type Record interface {
	// Kind returns the entity type
	Kind() Kind
	// MaxSize returns the maximum serialized size in bytes, used to size
	// storage allocation for the record
	MaxSize() int
	// Encode serializes the record, discriminator prefix included
	Encode() []byte
}

// KindOf returns the kind encoded in a serialized record's discriminator
// prefix without decoding the rest of the record.
func KindOf(data []byte) (Kind, error) {
	if len(data) < DiscriminatorSize {
		return "", fmt.Errorf(
			"%w: %d bytes is too short for a discriminator",
			ErrCorruptRecord,
			len(data),
		)
	}
	for k, disc := range discriminators {
		if [DiscriminatorSize]byte(data[:DiscriminatorSize]) == disc {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// Decode deserializes a record of any kind, dispatching on the
// discriminator prefix.
func Decode(data []byte) (Record, error) {
	kind, err := KindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindProfile:
		return DecodeProfile(data)
	case KindCommunity:
		return DecodeCommunity(data)
	case KindMembership:
		return DecodeMembership(data)
	case KindPost:
		return DecodePost(data)
	case KindLike:
		return DecodeLike(data)
	case KindComment:
		return DecodeComment(data)
	case KindFollow:
		return DecodeFollow(data)
	case KindPoll:
		return DecodePoll(data)
	case KindVote:
		return DecodeVote(data)
	default:
		return nil, ErrUnknownKind
	}
}

// checkDiscriminator verifies the prefix matches the expected kind and
// returns the remaining field bytes.
func checkDiscriminator(data []byte, kind Kind) ([]byte, error) {
	if len(data) < DiscriminatorSize {
		return nil, fmt.Errorf(
			"%w: %d bytes is too short for a discriminator",
			ErrCorruptRecord,
			len(data),
		)
	}
	if [DiscriminatorSize]byte(data[:DiscriminatorSize]) != kind.Discriminator() {
		return nil, fmt.Errorf("%w: expected %s", ErrWrongKind, kind)
	}
	return data[DiscriminatorSize:], nil
}
