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

// PollOption pairs an option identity with its running tally. Options and
// tallies are stored as one list of pairs so their lengths cannot diverge.
// Tallies are u32, a narrower ceiling than the u64 counters elsewhere; the
// asymmetry is inherited from the original protocol and overflow at the u32
// boundary fails the same way as every other checked counter.
type PollOption struct {
	Profile address.Address
	Votes   uint32
}

// Poll is a timed vote among profile options within a community. Voting is
// open strictly before EndTime.
type Poll struct {
	Community   address.Address
	PollID      uint64
	QuestionURI string
	Options     []PollOption
	CreatedBy   address.Address
	EndTime     int64
	CreatedAt   int64
}

// PollAddress derives the record address for a poll created at the given
// value of its community's poll counter.
func PollAddress(community address.Address, pollID uint64) address.Address {
	return address.Derive(
		string(KindPoll),
		community.Bytes(),
		address.Uint64Seed(pollID),
	)
}

func (p *Poll) Kind() Kind {
	return KindPoll
}

func (p *Poll) MaxSize() int {
	return PollSize
}

func (p *Poll) Encode() []byte {
	e := newEncoder(KindPoll, PollSize)
	e.putAddress(p.Community)
	e.putU64(p.PollID)
	e.putString(p.QuestionURI)
	e.putU32(uint32(len(p.Options)))
	for _, opt := range p.Options {
		e.putAddress(opt.Profile)
		e.putU32(opt.Votes)
	}
	e.putAddress(p.CreatedBy)
	e.putI64(p.EndTime)
	e.putI64(p.CreatedAt)
	return e.bytes()
}

func DecodePoll(data []byte) (*Poll, error) {
	fields, err := checkDiscriminator(data, KindPoll)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Poll{
		Community:   d.address(),
		PollID:      d.u64(),
		QuestionURI: d.string(MaxQuestionURILen),
	}
	optCount := d.u32()
	if d.err == nil && optCount > MaxPollOptions {
		return nil, ErrCorruptRecord
	}
	for range optCount {
		ret.Options = append(
			ret.Options,
			PollOption{
				Profile: d.address(),
				Votes:   d.u32(),
			},
		)
	}
	ret.CreatedBy = d.address()
	ret.EndTime = d.i64()
	ret.CreatedAt = d.i64()
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Vote records that a voter chose an option in a poll. At most one exists
// per (poll, voter), enforced by the derived address; this is the only
// double-vote guard.
type Vote struct {
	Poll        address.Address
	Voter       address.Address
	OptionIndex uint8
	VotedAt     int64
}

// VoteAddress derives the record address for a (poll, voter) vote.
func VoteAddress(poll, voter address.Address) address.Address {
	return address.Derive(string(KindVote), poll.Bytes(), voter.Bytes())
}

func (v *Vote) Kind() Kind {
	return KindVote
}

func (v *Vote) MaxSize() int {
	return VoteSize
}

func (v *Vote) Encode() []byte {
	e := newEncoder(KindVote, VoteSize)
	e.putAddress(v.Poll)
	e.putAddress(v.Voter)
	e.putU8(v.OptionIndex)
	e.putI64(v.VotedAt)
	return e.bytes()
}

func DecodeVote(data []byte) (*Vote, error) {
	fields, err := checkDiscriminator(data, KindVote)
	if err != nil {
		return nil, err
	}
	d := newDecoder(fields)
	ret := &Vote{
		Poll:        d.address(),
		Voter:       d.address(),
		OptionIndex: d.u8(),
		VotedAt:     d.i64(),
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ret, nil
}
