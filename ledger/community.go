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

// CreateCommunity creates a community for the chosen client-side ID and
// enrolls the creator as its first member in the same atomic operation, so
// a community is never observable with a creator who is not a member. The
// member count starts at one. Both a community.created and a
// community.joined event are emitted.
func (l *Ledger) CreateCommunity(
	creator address.Address,
	communityID uint64,
	name string,
	descriptionURI string,
) (address.Address, error) {
	communityAddr := record.CommunityAddress(communityID)
	err := l.runOp(
		"create_community",
		func(txn *database.Txn, now int64, res *opResult) error {
			if len(name) > record.MaxCommunityNameLen {
				return ErrCommunityNameTooLong
			}
			if len(descriptionURI) > record.MaxDescriptionURILen {
				return ErrDescriptionURITooLong
			}
			exists, err := txn.RecordExists(record.ProfileAddress(creator))
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf(
					"%w: creator %s has no profile",
					ErrProfileRequired,
					creator,
				)
			}
			community := &record.Community{
				Name:           name,
				DescriptionURI: descriptionURI,
				Creator:        creator,
				CommunityID:    communityID,
				MemberCount:    1,
				CreatedAt:      now,
			}
			if err := l.createRecord(txn, res, creator, communityAddr, community); err != nil {
				return err
			}
			membership := &record.Membership{
				Community: communityAddr,
				User:      creator,
				JoinedAt:  now,
			}
			membershipAddr := record.MembershipAddress(communityAddr, creator)
			if err := l.createRecord(txn, res, creator, membershipAddr, membership); err != nil {
				return err
			}
			res.emit(
				CommunityCreatedEventType,
				CommunityCreatedEvent{
					Community: communityAddr,
					Creator:   creator,
					Name:      name,
					Timestamp: now,
				},
			)
			res.emit(
				CommunityJoinedEventType,
				CommunityJoinedEvent{
					Community: communityAddr,
					User:      creator,
					Timestamp: now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return communityAddr, nil
}

// JoinCommunity enrolls a user in an existing community. Joining twice
// fails with ErrAlreadyExists on the membership address collision.
func (l *Ledger) JoinCommunity(
	user address.Address,
	communityAddr address.Address,
) (address.Address, error) {
	membershipAddr := record.MembershipAddress(communityAddr, user)
	err := l.runOp(
		"join_community",
		func(txn *database.Txn, now int64, res *opResult) error {
			exists, err := txn.RecordExists(record.ProfileAddress(user))
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf(
					"%w: user %s has no profile",
					ErrProfileRequired,
					user,
				)
			}
			community, err := l.loadCommunity(txn, communityAddr)
			if err != nil {
				return err
			}
			membership := &record.Membership{
				Community: communityAddr,
				User:      user,
				JoinedAt:  now,
			}
			if err := l.createRecord(txn, res, user, membershipAddr, membership); err != nil {
				return err
			}
			community.MemberCount, err = checkedAddU64(
				community.MemberCount,
				1,
			)
			if err != nil {
				return err
			}
			if err := txn.UpdateRecord(communityAddr, community.Encode()); err != nil {
				return err
			}
			res.emit(
				CommunityJoinedEventType,
				CommunityJoinedEvent{
					Community: communityAddr,
					User:      user,
					Timestamp: now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return membershipAddr, nil
}

// LeaveCommunity removes a user's membership and decrements the member
// count. Only the member themselves can remove their membership record.
func (l *Ledger) LeaveCommunity(
	user address.Address,
	communityAddr address.Address,
) error {
	return l.runOp(
		"leave_community",
		func(txn *database.Txn, now int64, res *opResult) error {
			membershipAddr := record.MembershipAddress(communityAddr, user)
			membership, err := l.loadMembership(txn, membershipAddr)
			if err != nil {
				return err
			}
			if membership.User != user {
				return fmt.Errorf(
					"%w: membership belongs to %s",
					ErrNotAuthorized,
					membership.User,
				)
			}
			community, err := l.loadCommunity(txn, communityAddr)
			if err != nil {
				return err
			}
			community.MemberCount, err = checkedSubU64(
				community.MemberCount,
				1,
			)
			if err != nil {
				return err
			}
			if err := txn.UpdateRecord(communityAddr, community.Encode()); err != nil {
				return err
			}
			if err := l.freeRecord(
				txn, res, user, membershipAddr,
				record.KindMembership, record.MembershipSize,
			); err != nil {
				return err
			}
			res.emit(
				CommunityLeftEventType,
				CommunityLeftEvent{
					Community: communityAddr,
					User:      user,
					Timestamp: now,
				},
			)
			return nil
		},
	)
}
