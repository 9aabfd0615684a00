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

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/record"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// decodeRequest decodes a JSON request body into v, failing on unknown
// fields.
func decodeRequest(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// parseContentHash decodes a hex content hash field.
func parseContentHash(s string) ([record.ContentHashSize]byte, error) {
	var ret [record.ContentHashSize]byte
	if s == "" {
		return ret, nil
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return ret, fmt.Errorf("invalid content hash: %w", err)
	}
	if len(data) != record.ContentHashSize {
		return ret, fmt.Errorf(
			"invalid content hash: got %d bytes, want %d",
			len(data),
			record.ContentHashSize,
		)
	}
	copy(ret[:], data)
	return ret, nil
}

// handleHealth handles GET /health.
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{Healthy: true})
}

// handleGetRecord handles GET /v0/records/{address} and returns the
// decoded record stored at the address.
func (a *Api) handleGetRecord(
	w http.ResponseWriter,
	r *http.Request,
) {
	addr, err := address.FromString(r.PathValue("address"))
	if err != nil {
		a.writeBadRequest(w, err)
		return
	}
	data, err := a.ledger.Database().GetRecord(addr)
	if err != nil {
		a.writeError(w, err)
		return
	}
	rec, err := record.Decode(data)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordResponse{
		Address: addr,
		Kind:    string(rec.Kind()),
		Record:  rec,
	})
}

// handleCreateProfile handles POST /v0/profiles.
func (a *Api) handleCreateProfile(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreateProfileRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.CreateProfile(
		req.Owner,
		req.DisplayName,
		req.AvatarURI,
	)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}

// handleUpdateProfile handles PATCH /v0/profiles/{owner}.
func (a *Api) handleUpdateProfile(
	w http.ResponseWriter,
	r *http.Request,
) {
	owner, err := address.FromString(r.PathValue("owner"))
	if err != nil {
		a.writeBadRequest(w, err)
		return
	}
	var req UpdateProfileRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	if err := a.ledger.UpdateProfile(
		owner,
		req.DisplayName,
		req.AvatarURI,
	); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AddressResponse{
		Address: record.ProfileAddress(owner),
	})
}

// handleFollow handles POST /v0/follows.
func (a *Api) handleFollow(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req FollowRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.FollowUser(req.Follower, req.Followed)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}

// handleUnfollow handles DELETE /v0/follows.
func (a *Api) handleUnfollow(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req FollowRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	if err := a.ledger.UnfollowUser(req.Follower, req.Followed); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateCommunity handles POST /v0/communities.
func (a *Api) handleCreateCommunity(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreateCommunityRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.CreateCommunity(
		req.Creator,
		req.CommunityID,
		req.Name,
		req.DescriptionURI,
	)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}

// handleJoinCommunity handles POST /v0/memberships.
func (a *Api) handleJoinCommunity(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req MembershipRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.JoinCommunity(req.User, req.Community)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}

// handleLeaveCommunity handles DELETE /v0/memberships.
func (a *Api) handleLeaveCommunity(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req MembershipRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	if err := a.ledger.LeaveCommunity(req.User, req.Community); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreatePost handles POST /v0/posts.
func (a *Api) handleCreatePost(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreatePostRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	contentHash, err := parseContentHash(req.ContentHash)
	if err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.CreatePost(
		req.Author,
		req.Community,
		req.ContentURI,
		contentHash,
		req.IsAnonymous,
		req.Pseudonym,
	)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}

// handleLikePost handles POST /v0/likes.
func (a *Api) handleLikePost(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req LikeRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.LikePost(req.Liker, req.Post)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}

// handleUnlikePost handles DELETE /v0/likes.
func (a *Api) handleUnlikePost(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req LikeRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	if err := a.ledger.UnlikePost(req.Liker, req.Post); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleComment handles POST /v0/comments.
func (a *Api) handleComment(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CommentRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	contentHash, err := parseContentHash(req.ContentHash)
	if err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.CommentOnPost(
		req.Commenter,
		req.Post,
		req.ContentURI,
		contentHash,
	)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}

// handleTip handles POST /v0/tips.
func (a *Api) handleTip(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req TipRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	if err := a.ledger.TipPost(
		req.Tipper,
		req.Post,
		req.Recipient,
		req.Amount,
	); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreatePoll handles POST /v0/polls.
func (a *Api) handleCreatePoll(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreatePollRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.CreatePoll(
		req.Creator,
		req.Community,
		req.QuestionURI,
		req.Options,
		req.EndTime,
	)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}

// handleVote handles POST /v0/votes.
func (a *Api) handleVote(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req VoteRequest
	if err := decodeRequest(r, &req); err != nil {
		a.writeBadRequest(w, err)
		return
	}
	addr, err := a.ledger.VotePoll(req.Voter, req.Poll, req.OptionIndex)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddressResponse{Address: addr})
}
