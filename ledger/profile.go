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
	"errors"
	"fmt"

	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/database"
	"github.com/blinklabs-io/slick/record"
)

// CreateProfile creates the identity record for owner. An owner has at
// most one profile; a second create fails with ErrAlreadyExists.
func (l *Ledger) CreateProfile(
	owner address.Address,
	displayName string,
	avatarURI string,
) (address.Address, error) {
	profileAddr := record.ProfileAddress(owner)
	err := l.runOp(
		"create_profile",
		func(txn *database.Txn, now int64, res *opResult) error {
			if len(displayName) > record.MaxDisplayNameLen {
				return ErrDisplayNameTooLong
			}
			if len(avatarURI) > record.MaxAvatarURILen {
				return ErrAvatarURITooLong
			}
			profile := &record.Profile{
				Owner:       owner,
				DisplayName: displayName,
				AvatarURI:   avatarURI,
				CreatedAt:   now,
			}
			if err := l.createRecord(txn, res, owner, profileAddr, profile); err != nil {
				return err
			}
			res.emit(
				ProfileCreatedEventType,
				ProfileCreatedEvent{
					Profile:     profileAddr,
					Owner:       owner,
					DisplayName: displayName,
					Timestamp:   now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return profileAddr, nil
}

// UpdateProfile overwrites the mutable fields of owner's profile. Each
// field is optional: a nil field is left untouched, a supplied field is
// re-validated and written. Follower counters and the creation timestamp
// are never modified.
func (l *Ledger) UpdateProfile(
	owner address.Address,
	displayName *string,
	avatarURI *string,
) error {
	return l.runOp(
		"update_profile",
		func(txn *database.Txn, now int64, res *opResult) error {
			if displayName != nil &&
				len(*displayName) > record.MaxDisplayNameLen {
				return ErrDisplayNameTooLong
			}
			if avatarURI != nil && len(*avatarURI) > record.MaxAvatarURILen {
				return ErrAvatarURITooLong
			}
			profileAddr := record.ProfileAddress(owner)
			profile, err := l.loadProfile(txn, profileAddr)
			if err != nil {
				return err
			}
			if displayName != nil {
				profile.DisplayName = *displayName
			}
			if avatarURI != nil {
				profile.AvatarURI = *avatarURI
			}
			if err := txn.UpdateRecord(profileAddr, profile.Encode()); err != nil {
				return err
			}
			res.emit(
				ProfileUpdatedEventType,
				ProfileUpdatedEvent{
					Profile:   profileAddr,
					Owner:     owner,
					Timestamp: now,
				},
			)
			return nil
		},
	)
}

// FollowUser creates the ordered follow relation from the follower's
// profile to the followed profile and increments the followed profile's
// follower counter. The follower's own following counter is intentionally
// left alone, matching the protocol this engine replays.
func (l *Ledger) FollowUser(
	follower address.Address,
	followed address.Address,
) (address.Address, error) {
	var followAddr address.Address
	err := l.runOp(
		"follow_user",
		func(txn *database.Txn, now int64, res *opResult) error {
			if follower == followed {
				return ErrCannotFollowSelf
			}
			followerProfileAddr := record.ProfileAddress(follower)
			exists, err := txn.RecordExists(followerProfileAddr)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf(
					"%w: follower %s has no profile",
					ErrProfileRequired,
					follower,
				)
			}
			followedProfileAddr := record.ProfileAddress(followed)
			followedProfile, err := l.loadProfile(txn, followedProfileAddr)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return fmt.Errorf(
						"%w: followed user %s has no profile",
						ErrProfileRequired,
						followed,
					)
				}
				return err
			}
			followAddr = record.FollowAddress(
				followerProfileAddr,
				followedProfileAddr,
			)
			follow := &record.Follow{
				Follower:   followerProfileAddr,
				Followed:   followedProfileAddr,
				FollowedAt: now,
			}
			if err := l.createRecord(txn, res, follower, followAddr, follow); err != nil {
				return err
			}
			followedProfile.FollowerCount, err = checkedAddU64(
				followedProfile.FollowerCount,
				1,
			)
			if err != nil {
				return err
			}
			if err := txn.UpdateRecord(followedProfileAddr, followedProfile.Encode()); err != nil {
				return err
			}
			res.emit(
				UserFollowedEventType,
				UserFollowedEvent{
					Follower:  followerProfileAddr,
					Followed:  followedProfileAddr,
					Actor:     follower,
					Timestamp: now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return followAddr, nil
}

// UnfollowUser removes the follow relation and decrements the followed
// profile's follower counter. Only the original follower can remove it.
func (l *Ledger) UnfollowUser(
	follower address.Address,
	followed address.Address,
) error {
	return l.runOp(
		"unfollow_user",
		func(txn *database.Txn, now int64, res *opResult) error {
			followerProfileAddr := record.ProfileAddress(follower)
			followedProfileAddr := record.ProfileAddress(followed)
			followAddr := record.FollowAddress(
				followerProfileAddr,
				followedProfileAddr,
			)
			data, err := txn.GetRecord(followAddr)
			if err != nil {
				return err
			}
			follow, err := record.DecodeFollow(data)
			if err != nil {
				return err
			}
			if follow.Follower != followerProfileAddr ||
				follow.Followed != followedProfileAddr {
				return fmt.Errorf(
					"%w: follow %s",
					ErrAddressMismatch,
					followAddr,
				)
			}
			followedProfile, err := l.loadProfile(txn, followedProfileAddr)
			if err != nil {
				return err
			}
			followedProfile.FollowerCount, err = checkedSubU64(
				followedProfile.FollowerCount,
				1,
			)
			if err != nil {
				return err
			}
			if err := txn.UpdateRecord(followedProfileAddr, followedProfile.Encode()); err != nil {
				return err
			}
			if err := l.freeRecord(
				txn, res, follower, followAddr,
				record.KindFollow, record.FollowSize,
			); err != nil {
				return err
			}
			res.emit(
				UserUnfollowedEventType,
				UserUnfollowedEvent{
					Follower:   followerProfileAddr,
					Unfollowed: followedProfileAddr,
					Actor:      follower,
					Timestamp:  now,
				},
			)
			return nil
		},
	)
}
