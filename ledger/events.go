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
	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/event"
	"github.com/blinklabs-io/slick/record"
)

const (
	ProfileCreatedEventType   event.EventType = "profile.created"
	ProfileUpdatedEventType   event.EventType = "profile.updated"
	UserFollowedEventType     event.EventType = "user.followed"
	UserUnfollowedEventType   event.EventType = "user.unfollowed"
	CommunityCreatedEventType event.EventType = "community.created"
	CommunityJoinedEventType  event.EventType = "community.joined"
	CommunityLeftEventType    event.EventType = "community.left"
	PostCreatedEventType      event.EventType = "post.created"
	PostLikedEventType        event.EventType = "post.liked"
	PostUnlikedEventType      event.EventType = "post.unliked"
	CommentCreatedEventType   event.EventType = "comment.created"
	PostTippedEventType       event.EventType = "post.tipped"
	PollCreatedEventType      event.EventType = "poll.created"
	PollVotedEventType        event.EventType = "poll.voted"
)

// EventTypes lists every event type the engine emits
func EventTypes() []event.EventType {
	return []event.EventType{
		ProfileCreatedEventType,
		ProfileUpdatedEventType,
		UserFollowedEventType,
		UserUnfollowedEventType,
		CommunityCreatedEventType,
		CommunityJoinedEventType,
		CommunityLeftEventType,
		PostCreatedEventType,
		PostLikedEventType,
		PostUnlikedEventType,
		CommentCreatedEventType,
		PostTippedEventType,
		PollCreatedEventType,
		PollVotedEventType,
	}
}

// EventPayload is implemented by every engine event payload
type EventPayload interface {
	// ActingIdentity returns the identity that performed the operation
	ActingIdentity() address.Address
}

type ProfileCreatedEvent struct {
	Profile     address.Address `json:"profile"`
	Owner       address.Address `json:"owner"`
	DisplayName string          `json:"display_name"`
	Timestamp   int64           `json:"timestamp"`
}

func (e ProfileCreatedEvent) ActingIdentity() address.Address {
	return e.Owner
}

type ProfileUpdatedEvent struct {
	Profile   address.Address `json:"profile"`
	Owner     address.Address `json:"owner"`
	Timestamp int64           `json:"timestamp"`
}

func (e ProfileUpdatedEvent) ActingIdentity() address.Address {
	return e.Owner
}

type UserFollowedEvent struct {
	Follower  address.Address `json:"follower"`
	Followed  address.Address `json:"followed"`
	Actor     address.Address `json:"actor"`
	Timestamp int64           `json:"timestamp"`
}

func (e UserFollowedEvent) ActingIdentity() address.Address {
	return e.Actor
}

type UserUnfollowedEvent struct {
	Follower   address.Address `json:"follower"`
	Unfollowed address.Address `json:"unfollowed"`
	Actor      address.Address `json:"actor"`
	Timestamp  int64           `json:"timestamp"`
}

func (e UserUnfollowedEvent) ActingIdentity() address.Address {
	return e.Actor
}

type CommunityCreatedEvent struct {
	Community address.Address `json:"community"`
	Creator   address.Address `json:"creator"`
	Name      string          `json:"name"`
	Timestamp int64           `json:"timestamp"`
}

func (e CommunityCreatedEvent) ActingIdentity() address.Address {
	return e.Creator
}

type CommunityJoinedEvent struct {
	Community address.Address `json:"community"`
	User      address.Address `json:"user"`
	Timestamp int64           `json:"timestamp"`
}

func (e CommunityJoinedEvent) ActingIdentity() address.Address {
	return e.User
}

type CommunityLeftEvent struct {
	Community address.Address `json:"community"`
	User      address.Address `json:"user"`
	Timestamp int64           `json:"timestamp"`
}

func (e CommunityLeftEvent) ActingIdentity() address.Address {
	return e.User
}

type PostCreatedEvent struct {
	Post        address.Address        `json:"post"`
	Community   address.Address        `json:"community"`
	PostID      uint64                 `json:"post_id"`
	Author      record.OptionalAddress `json:"author"`
	IsAnonymous bool                   `json:"is_anonymous"`
	Actor       address.Address        `json:"actor"`
	Timestamp   int64                  `json:"timestamp"`
}

func (e PostCreatedEvent) ActingIdentity() address.Address {
	return e.Actor
}

type PostLikedEvent struct {
	Post      address.Address `json:"post"`
	Liker     address.Address `json:"liker"`
	Timestamp int64           `json:"timestamp"`
}

func (e PostLikedEvent) ActingIdentity() address.Address {
	return e.Liker
}

type PostUnlikedEvent struct {
	Post      address.Address `json:"post"`
	Unliker   address.Address `json:"unliker"`
	Timestamp int64           `json:"timestamp"`
}

func (e PostUnlikedEvent) ActingIdentity() address.Address {
	return e.Unliker
}

type CommentCreatedEvent struct {
	Comment   address.Address `json:"comment"`
	Post      address.Address `json:"post"`
	CommentID uint64          `json:"comment_id"`
	Commenter address.Address `json:"commenter"`
	Timestamp int64           `json:"timestamp"`
}

func (e CommentCreatedEvent) ActingIdentity() address.Address {
	return e.Commenter
}

type PostTippedEvent struct {
	Post      address.Address `json:"post"`
	Tipper    address.Address `json:"tipper"`
	Recipient address.Address `json:"recipient"`
	Amount    uint64          `json:"amount"`
	Timestamp int64           `json:"timestamp"`
}

func (e PostTippedEvent) ActingIdentity() address.Address {
	return e.Tipper
}

type PollCreatedEvent struct {
	Poll      address.Address `json:"poll"`
	Community address.Address `json:"community"`
	PollID    uint64          `json:"poll_id"`
	Creator   address.Address `json:"creator"`
	EndTime   int64           `json:"end_time"`
	Timestamp int64           `json:"timestamp"`
}

func (e PollCreatedEvent) ActingIdentity() address.Address {
	return e.Creator
}

type PollVotedEvent struct {
	Poll        address.Address `json:"poll"`
	Voter       address.Address `json:"voter"`
	OptionIndex uint8           `json:"option_index"`
	Timestamp   int64           `json:"timestamp"`
}

func (e PollVotedEvent) ActingIdentity() address.Address {
	return e.Voter
}
