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

// Profile is a user identity record. There is at most one per owner,
// enforced by the derived address.
type Profile struct {
	Owner          address.Address
	DisplayName    string
	AvatarURI      string
	FollowerCount  uint64
	FollowingCount uint64
	CreatedAt      int64
}

// ProfileAddress derives the record address for an owner's profile.
func ProfileAddress(owner address.Address) address.Address {
	return address.Derive(string(KindProfile), owner.Bytes())
}

func (p *Profile) Kind() Kind {
	return KindProfile
}

func (p *Profile) MaxSize() int {
	return ProfileSize
}

func (p *Profile) Encode() []byte {
	e := newEncoder(KindProfile, ProfileSize)
	e.putAddress(p.Owner)
	e.putString(p.DisplayName)
	e.putString(p.AvatarURI)
	e.putU64(p.FollowerCount)
	e.putU64(p.FollowingCount)
	e.putI64(p.CreatedAt)
	return e.bytes()
}

func DecodeProfile(data []byte) (*Profile, error) {
	fields, err := checkDiscriminator(data, KindProfile)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Profile{
		Owner:          d.address(),
		DisplayName:    d.string(MaxDisplayNameLen),
		AvatarURI:      d.string(MaxAvatarURILen),
		FollowerCount:  d.u64(),
		FollowingCount: d.u64(),
		CreatedAt:      d.i64(),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}
