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

package record_test

import (
	"strings"
	"testing"

	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity(name string) address.Address {
	return address.Derive("test-identity", []byte(name))
}

func TestPostRoundTripWithAuthor(t *testing.T) {
	author := testIdentity("alice")
	community := record.CommunityAddress(42)
	post := &record.Post{
		Community:   community,
		PostID:      3,
		ContentURI:  "ipfs://QmExample",
		ContentHash: [32]byte{0x01, 0x02, 0x03},
		Author:      record.SomeAddress(author),
		Pseudonym:   record.NoString(),
		LikesCount:  7,
		CreatedAt:   1700000000,
	}
	decoded, err := record.DecodePost(post.Encode())
	require.NoError(t, err)
	assert.Equal(t, post, decoded)
	gotAuthor, ok := decoded.Author.Value()
	require.True(t, ok)
	assert.Equal(t, author, gotAuthor)
	assert.False(t, decoded.Pseudonym.IsSet())
}

func TestPostRoundTripAnonymous(t *testing.T) {
	post := &record.Post{
		Community:  record.CommunityAddress(42),
		PostID:     0,
		ContentURI: "ipfs://QmExample",
		Author:     record.NoAddress(),
		Pseudonym:  record.SomeString("ghost"),
		CreatedAt:  1700000000,
	}
	decoded, err := record.DecodePost(post.Encode())
	require.NoError(t, err)
	assert.False(t, decoded.Author.IsSet())
	pseudonym, ok := decoded.Pseudonym.Value()
	require.True(t, ok)
	assert.Equal(t, "ghost", pseudonym)
}

func TestPollRoundTrip(t *testing.T) {
	poll := &record.Poll{
		Community:   record.CommunityAddress(1),
		PollID:      5,
		QuestionURI: "ipfs://QmQuestion",
		Options: []record.PollOption{
			{Profile: testIdentity("a"), Votes: 0},
			{Profile: testIdentity("b"), Votes: 12},
			{Profile: testIdentity("c"), Votes: 3},
		},
		CreatedBy: testIdentity("creator"),
		EndTime:   1800000000,
		CreatedAt: 1700000000,
	}
	decoded, err := record.DecodePoll(poll.Encode())
	require.NoError(t, err)
	assert.Equal(t, poll, decoded)
	assert.Len(t, decoded.Options, 3)
}

func TestDecodeDispatch(t *testing.T) {
	membership := &record.Membership{
		Community: record.CommunityAddress(9),
		User:      testIdentity("bob"),
		JoinedAt:  1700000000,
	}
	rec, err := record.Decode(membership.Encode())
	require.NoError(t, err)
	assert.Equal(t, record.KindMembership, rec.Kind())
	decoded, ok := rec.(*record.Membership)
	require.True(t, ok)
	assert.Equal(t, membership, decoded)
}

func TestDecodeWrongKind(t *testing.T) {
	like := &record.Like{
		Post:  record.PostAddress(record.CommunityAddress(1), 0),
		Liker: testIdentity("carol"),
	}
	_, err := record.DecodeVote(like.Encode())
	require.ErrorIs(t, err, record.ErrWrongKind)
}

func TestDecodeTruncated(t *testing.T) {
	profile := &record.Profile{
		Owner:       testIdentity("dave"),
		DisplayName: "Dave",
	}
	data := profile.Encode()
	_, err := record.DecodeProfile(data[:len(data)-4])
	require.ErrorIs(t, err, record.ErrCorruptRecord)
	_, err = record.Decode([]byte{0x01})
	require.ErrorIs(t, err, record.ErrCorruptRecord)
}

func TestDecodeTrailingBytes(t *testing.T) {
	vote := &record.Vote{
		Poll:  record.PollAddress(record.CommunityAddress(1), 0),
		Voter: testIdentity("erin"),
	}
	data := append(vote.Encode(), 0xff)
	_, err := record.DecodeVote(data)
	require.ErrorIs(t, err, record.ErrCorruptRecord)
}

func TestDecodeStringCeiling(t *testing.T) {
	// A profile encoded with an oversized display name must not decode
	profile := &record.Profile{
		Owner:       testIdentity("mallory"),
		DisplayName: strings.Repeat("x", record.MaxDisplayNameLen+1),
	}
	_, err := record.DecodeProfile(profile.Encode())
	require.ErrorIs(t, err, record.ErrCorruptRecord)
}

func TestEncodedSizeWithinCeiling(t *testing.T) {
	recs := []record.Record{
		&record.Profile{
			DisplayName: strings.Repeat("n", record.MaxDisplayNameLen),
			AvatarURI:   strings.Repeat("u", record.MaxAvatarURILen),
		},
		&record.Community{
			Name:           strings.Repeat("n", record.MaxCommunityNameLen),
			DescriptionURI: strings.Repeat("u", record.MaxDescriptionURILen),
		},
		&record.Post{
			ContentURI: strings.Repeat("u", record.MaxContentURILen),
			Author:     record.SomeAddress(testIdentity("a")),
			Pseudonym:  record.SomeString(strings.Repeat("p", record.MaxPseudonymLen)),
		},
		&record.Comment{
			ContentURI: strings.Repeat("u", record.MaxContentURILen),
		},
		&record.Poll{
			QuestionURI: strings.Repeat("u", record.MaxQuestionURILen),
			Options:     make([]record.PollOption, record.MaxPollOptions),
		},
		&record.Membership{},
		&record.Like{},
		&record.Follow{},
		&record.Vote{},
	}
	for _, rec := range recs {
		assert.LessOrEqual(
			t,
			len(rec.Encode()),
			rec.MaxSize(),
			"kind %s exceeds its size ceiling",
			rec.Kind(),
		)
	}
}

func TestKindOf(t *testing.T) {
	follow := &record.Follow{
		Follower: record.ProfileAddress(testIdentity("a")),
		Followed: record.ProfileAddress(testIdentity("b")),
	}
	kind, err := record.KindOf(follow.Encode())
	require.NoError(t, err)
	assert.Equal(t, record.KindFollow, kind)
	_, err = record.KindOf(make([]byte, record.DiscriminatorSize))
	require.ErrorIs(t, err, record.ErrUnknownKind)
}
