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

package ledger

import (
	"fmt"

	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/database"
	"github.com/blinklabs-io/slick/record"
)

// CreatePoll creates a timed poll among profile options in a community the
// creator is a member of. The poll ID is allocated from the community's
// poll counter, the option count must fall within the allowed range, and
// the end time must be strictly in the future. All tallies start at zero.
func (l *Ledger) CreatePoll(
	creator address.Address,
	communityAddr address.Address,
	questionURI string,
	optionProfiles []address.Address,
	endTime int64,
) (address.Address, error) {
	var pollAddr address.Address
	err := l.runOp(
		"create_poll",
		func(txn *database.Txn, now int64, res *opResult) error {
			if len(questionURI) > record.MaxQuestionURILen {
				return ErrQuestionURITooLong
			}
			if len(optionProfiles) < record.MinPollOptions {
				return fmt.Errorf(
					"%w: got %d, need at least %d",
					ErrTooFewPollOptions,
					len(optionProfiles),
					record.MinPollOptions,
				)
			}
			if len(optionProfiles) > record.MaxPollOptions {
				return fmt.Errorf(
					"%w: got %d, limit %d",
					ErrTooManyPollOptions,
					len(optionProfiles),
					record.MaxPollOptions,
				)
			}
			if endTime <= now {
				return ErrEndTimeNotFuture
			}
			if err := l.requireMembership(txn, communityAddr, creator); err != nil {
				return err
			}
			community, err := l.loadCommunity(txn, communityAddr)
			if err != nil {
				return err
			}
			pollID := community.PollCounter
			community.PollCounter, err = checkedAddU64(
				community.PollCounter,
				1,
			)
			if err != nil {
				return err
			}
			options := make([]record.PollOption, 0, len(optionProfiles))
			for _, profile := range optionProfiles {
				options = append(
					options,
					record.PollOption{Profile: profile},
				)
			}
			poll := &record.Poll{
				Community:   communityAddr,
				PollID:      pollID,
				QuestionURI: questionURI,
				Options:     options,
				CreatedBy:   creator,
				EndTime:     endTime,
				CreatedAt:   now,
			}
			pollAddr = record.PollAddress(communityAddr, pollID)
			if err := l.createRecord(txn, res, creator, pollAddr, poll); err != nil {
				return err
			}
			if err := txn.UpdateRecord(communityAddr, community.Encode()); err != nil {
				return err
			}
			res.emit(
				PollCreatedEventType,
				PollCreatedEvent{
					Poll:      pollAddr,
					Community: communityAddr,
					PollID:    pollID,
					Creator:   creator,
					EndTime:   endTime,
					Timestamp: now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return pollAddr, nil
}

// VotePoll records a vote on a poll option and increments its tally.
// Voting is open strictly before the poll's end time; a vote at exactly
// the end time is rejected. The voter must be a member of the poll's
// community, and the vote record's derived address is the only
// double-vote guard.
func (l *Ledger) VotePoll(
	voter address.Address,
	pollAddr address.Address,
	optionIndex uint8,
) (address.Address, error) {
	voteAddr := record.VoteAddress(pollAddr, voter)
	err := l.runOp(
		"vote_poll",
		func(txn *database.Txn, now int64, res *opResult) error {
			poll, err := l.loadPoll(txn, pollAddr)
			if err != nil {
				return err
			}
			if err := l.requireMembership(txn, poll.Community, voter); err != nil {
				return err
			}
			if now >= poll.EndTime {
				return fmt.Errorf(
					"%w: ended at %d",
					ErrPollEnded,
					poll.EndTime,
				)
			}
			if int(optionIndex) >= len(poll.Options) {
				return fmt.Errorf(
					"%w: index %d of %d options",
					ErrInvalidPollOption,
					optionIndex,
					len(poll.Options),
				)
			}
			vote := &record.Vote{
				Poll:        pollAddr,
				Voter:       voter,
				OptionIndex: optionIndex,
				VotedAt:     now,
			}
			if err := l.createRecord(txn, res, voter, voteAddr, vote); err != nil {
				return err
			}
			poll.Options[optionIndex].Votes, err = checkedAddU32(
				poll.Options[optionIndex].Votes,
				1,
			)
			if err != nil {
				return err
			}
			if err := txn.UpdateRecord(pollAddr, poll.Encode()); err != nil {
				return err
			}
			res.emit(
				PollVotedEventType,
				PollVotedEvent{
					Poll:        pollAddr,
					Voter:       voter,
					OptionIndex: optionIndex,
					Timestamp:   now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return voteAddr, nil
}
