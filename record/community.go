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

// Community is a named group that members post and poll within. Its
// counters are the sole sequential-ID allocators for posts and polls in the
// community; they are read and incremented inside the same atomic operation
// that creates the dependent record.
type Community struct {
	Name           string
	DescriptionURI string
	Creator        address.Address
	CommunityID    uint64
	MemberCount    uint64
	PostCounter    uint64
	PollCounter    uint64
	CreatedAt      int64
}

// CommunityAddress derives the record address for a community ID.
func CommunityAddress(communityID uint64) address.Address {
	return address.Derive(
		string(KindCommunity),
		address.Uint64Seed(communityID),
	)
}

func (c *Community) Kind() Kind {
	return KindCommunity
}

func (c *Community) MaxSize() int {
	return CommunitySize
}

func (c *Community) Encode() []byte {
	e := newEncoder(KindCommunity, CommunitySize)
	e.putString(c.Name)
	e.putString(c.DescriptionURI)
	e.putAddress(c.Creator)
	e.putU64(c.CommunityID)
	e.putU64(c.MemberCount)
	e.putU64(c.PostCounter)
	e.putU64(c.PollCounter)
	e.putI64(c.CreatedAt)
	return e.bytes()
}

func DecodeCommunity(data []byte) (*Community, error) {
	fields, err := checkDiscriminator(data, KindCommunity)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Community{
		Name:           d.string(MaxCommunityNameLen),
		DescriptionURI: d.string(MaxDescriptionURILen),
		Creator:        d.address(),
		CommunityID:    d.u64(),
		MemberCount:    d.u64(),
		PostCounter:    d.u64(),
		PollCounter:    d.u64(),
		CreatedAt:      d.i64(),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Membership is the proof record that a user belongs to a community. Its
// existence at the derived address is the authorization check for posting,
// commenting, polling and voting in that community.
type Membership struct {
	Community address.Address
	User      address.Address
	JoinedAt  int64
}

// MembershipAddress derives the record address for a (community, user)
// membership.
func MembershipAddress(community, user address.Address) address.Address {
	return address.Derive(
		string(KindMembership),
		community.Bytes(),
		user.Bytes(),
	)
}

func (m *Membership) Kind() Kind {
	return KindMembership
}

func (m *Membership) MaxSize() int {
	return MembershipSize
}

func (m *Membership) Encode() []byte {
	e := newEncoder(KindMembership, MembershipSize)
	e.putAddress(m.Community)
	e.putAddress(m.User)
	e.putI64(m.JoinedAt)
	return e.bytes()
}

func DecodeMembership(data []byte) (*Membership, error) {
	fields, err := checkDiscriminator(data, KindMembership)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Membership{
		Community: d.address(),
		User:      d.address(),
		JoinedAt:  d.i64(),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}
