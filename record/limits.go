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

import "github.com/blinklabs-io/slick/address"

// Bounded field ceilings, in bytes
const (
	MaxDisplayNameLen    = 50
	MaxAvatarURILen      = 200
	MaxCommunityNameLen  = 100
	MaxDescriptionURILen = 200
	MaxContentURILen     = 200
	MaxPseudonymLen      = 30
	MaxQuestionURILen    = 200
)

// Poll option cardinality bounds
const (
	MinPollOptions = 2
	MaxPollOptions = 10
)

// FixedTipAmount is the only accepted tip value. Tipping is all-or-nothing
// at this amount; variable tips are rejected.
const FixedTipAmount uint64 = 2_000_000

// ContentHashSize is the length of the off-chain content integrity hash.
const ContentHashSize = 32

// Maximum serialized sizes per entity. Storage allocation uses these
// ceilings rather than the actual content length, so records never need
// resizing after creation. String fields cost 4 (length prefix) plus their
// ceiling; optional fields cost 1 (presence flag) plus their payload.
const (
	ProfileSize = DiscriminatorSize + address.Size +
		4 + MaxDisplayNameLen +
		4 + MaxAvatarURILen +
		8 + 8 + 8
	CommunitySize = DiscriminatorSize +
		4 + MaxCommunityNameLen +
		4 + MaxDescriptionURILen +
		address.Size + 8 + 8 + 8 + 8 + 8
	MembershipSize = DiscriminatorSize + address.Size + address.Size + 8
	PostSize       = DiscriminatorSize + address.Size + 8 +
		4 + MaxContentURILen +
		ContentHashSize +
		1 + address.Size +
		1 + 4 + MaxPseudonymLen +
		8 + 8 + 8 + 8
	LikeSize    = DiscriminatorSize + address.Size + address.Size + 8
	CommentSize = DiscriminatorSize + address.Size + address.Size + 8 +
		4 + MaxContentURILen +
		ContentHashSize + 8
	FollowSize = DiscriminatorSize + address.Size + address.Size + 8
	PollSize   = DiscriminatorSize + address.Size + 8 +
		4 + MaxQuestionURILen +
		4 + MaxPollOptions*(address.Size+4) +
		address.Size + 8 + 8
	VoteSize = DiscriminatorSize + address.Size + address.Size + 1 + 8
)
