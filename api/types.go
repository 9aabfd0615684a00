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

package api

import "github.com/blinklabs-io/slick/address"

// ErrorResponse is the error payload returned by all endpoints.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Healthy bool `json:"healthy"`
}

// AddressResponse carries the derived address of a newly written record.
type AddressResponse struct {
	Address address.Address `json:"address"`
}

// RecordResponse wraps a decoded record read.
type RecordResponse struct {
	Address address.Address `json:"address"`
	Kind    string          `json:"kind"`
	Record  any             `json:"record"`
}

type CreateProfileRequest struct {
	Owner       address.Address `json:"owner"`
	DisplayName string          `json:"display_name"`
	AvatarURI   string          `json:"avatar_uri"`
}

// UpdateProfileRequest fields are pointers so an omitted field can be
// told apart from an explicit empty string. Omitted fields are left
// unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURI   *string `json:"avatar_uri,omitempty"`
}

type FollowRequest struct {
	Follower address.Address `json:"follower"`
	Followed address.Address `json:"followed"`
}

type CreateCommunityRequest struct {
	Creator        address.Address `json:"creator"`
	CommunityID    uint64          `json:"community_id"`
	Name           string          `json:"name"`
	DescriptionURI string          `json:"description_uri"`
}

type MembershipRequest struct {
	User      address.Address `json:"user"`
	Community address.Address `json:"community"`
}

// CreatePostRequest carries the pseudonym as a pointer so an anonymous
// post with an empty pseudonym is distinct from one with no pseudonym.
type CreatePostRequest struct {
	Author      address.Address `json:"author"`
	Community   address.Address `json:"community"`
	ContentURI  string          `json:"content_uri"`
	ContentHash string          `json:"content_hash"`
	IsAnonymous bool            `json:"is_anonymous"`
	Pseudonym   *string         `json:"pseudonym,omitempty"`
}

type LikeRequest struct {
	Liker address.Address `json:"liker"`
	Post  address.Address `json:"post"`
}

type CommentRequest struct {
	Commenter   address.Address `json:"commenter"`
	Post        address.Address `json:"post"`
	ContentURI  string          `json:"content_uri"`
	ContentHash string          `json:"content_hash"`
}

type TipRequest struct {
	Tipper    address.Address `json:"tipper"`
	Post      address.Address `json:"post"`
	Recipient address.Address `json:"recipient"`
	Amount    uint64          `json:"amount"`
}

type CreatePollRequest struct {
	Creator     address.Address   `json:"creator"`
	Community   address.Address   `json:"community"`
	QuestionURI string            `json:"question_uri"`
	Options     []address.Address `json:"options"`
	EndTime     int64             `json:"end_time"`
}

type VoteRequest struct {
	Voter       address.Address `json:"voter"`
	Poll        address.Address `json:"poll"`
	OptionIndex uint8           `json:"option_index"`
}
