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

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/api"
	"github.com/blinklabs-io/slick/database"
	"github.com/blinklabs-io/slick/ledger"
	"github.com/blinklabs-io/slick/record"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	ledger  *ledger.Ledger
	bank    *ledger.MemoryBank
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.New(
		database.Config{
			PromRegistry: prometheus.NewRegistry(),
			InMemory:     true,
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	bank := ledger.NewMemoryBank()
	l, err := ledger.NewLedger(
		ledger.LedgerConfig{
			PromRegistry: prometheus.NewRegistry(),
			Database:     db,
			Bank:         bank,
		},
	)
	require.NoError(t, err)
	a := api.New(api.ApiConfig{}, l, nil)
	return &testServer{
		handler: a.Handler(),
		ledger:  l,
		bank:    bank,
	}
}

func (s *testServer) request(
	t *testing.T,
	method string,
	path string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) newUser(t *testing.T, seed string) address.Address {
	t.Helper()
	user := address.Derive("user", []byte(seed))
	require.NoError(t, s.bank.Credit(user, 1_000_000_000))
	rec := s.request(
		t,
		http.MethodPost,
		"/v0/profiles",
		api.CreateProfileRequest{Owner: user, DisplayName: seed},
	)
	require.Equal(t, http.StatusCreated, rec.Code)
	return user
}

func strPtr(s string) *string {
	return &s
}

func decodeAddress(
	t *testing.T,
	rec *httptest.ResponseRecorder,
) address.Address {
	t.Helper()
	var resp api.AddressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Address
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Healthy)
}

func TestCreateProfileEndpoint(t *testing.T) {
	s := newTestServer(t)
	owner := address.Derive("user", []byte("alice"))
	require.NoError(t, s.bank.Credit(owner, 1_000_000_000))

	rec := s.request(
		t,
		http.MethodPost,
		"/v0/profiles",
		api.CreateProfileRequest{
			Owner:       owner,
			DisplayName: "Alice",
			AvatarURI:   "ipfs://avatar",
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, record.ProfileAddress(owner), decodeAddress(t, rec))

	// Duplicate profile is a conflict
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/profiles",
		api.CreateProfileRequest{Owner: owner, DisplayName: "Alice"},
	)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Over-limit display name is unprocessable
	other := address.Derive("user", []byte("bob"))
	require.NoError(t, s.bank.Credit(other, 1_000_000_000))
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/profiles",
		api.CreateProfileRequest{
			Owner:       other,
			DisplayName: strings.Repeat("x", record.MaxDisplayNameLen+1),
		},
	)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateProfileUnfundedEndpoint(t *testing.T) {
	s := newTestServer(t)
	owner := address.Derive("user", []byte("pauper"))
	rec := s.request(
		t,
		http.MethodPost,
		"/v0/profiles",
		api.CreateProfileRequest{Owner: owner, DisplayName: "Pauper"},
	)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := s.newUser(t, "alice")
	rec := s.request(
		t,
		http.MethodPatch,
		"/v0/profiles/"+alice.String(),
		api.UpdateProfileRequest{DisplayName: strPtr("Alice v2")},
	)
	require.Equal(t, http.StatusOK, rec.Code)

	// Malformed owner address
	rec = s.request(
		t,
		http.MethodPatch,
		"/v0/profiles/nothex",
		api.UpdateProfileRequest{DisplayName: strPtr("x")},
	)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown owner
	ghost := address.Derive("user", []byte("ghost"))
	rec = s.request(
		t,
		http.MethodPatch,
		"/v0/profiles/"+ghost.String(),
		api.UpdateProfileRequest{DisplayName: strPtr("x")},
	)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfileEndpointPartial(t *testing.T) {
	s := newTestServer(t)
	owner := address.Derive("user", []byte("alice"))
	require.NoError(t, s.bank.Credit(owner, 1_000_000_000))
	rec := s.request(
		t,
		http.MethodPost,
		"/v0/profiles",
		api.CreateProfileRequest{
			Owner:       owner,
			DisplayName: "Alice",
			AvatarURI:   "ipfs://avatar",
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	// A PATCH that omits avatar_uri must not clear it
	rec = s.request(
		t,
		http.MethodPatch,
		"/v0/profiles/"+owner.String(),
		api.UpdateProfileRequest{DisplayName: strPtr("Alice v2")},
	)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.request(
		t,
		http.MethodGet,
		"/v0/records/"+record.ProfileAddress(owner).String(),
		nil,
	)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Record record.Profile `json:"record"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Alice v2", resp.Record.DisplayName)
	assert.Equal(t, "ipfs://avatar", resp.Record.AvatarURI)
}

func TestGetRecordEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := s.newUser(t, "alice")

	rec := s.request(
		t,
		http.MethodGet,
		"/v0/records/"+record.ProfileAddress(alice).String(),
		nil,
	)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.RecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, record.ProfileAddress(alice), resp.Address)
	assert.Equal(t, string(record.KindProfile), resp.Kind)

	// Unknown address
	rec = s.request(
		t,
		http.MethodGet,
		"/v0/records/"+address.Derive("nothing", nil).String(),
		nil,
	)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed address
	rec = s.request(t, http.MethodGet, "/v0/records/zzz", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollowEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.newUser(t, "alice")
	bob := s.newUser(t, "bob")

	rec := s.request(
		t,
		http.MethodPost,
		"/v0/follows",
		api.FollowRequest{Follower: alice, Followed: bob},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Self-follow is unprocessable
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/follows",
		api.FollowRequest{Follower: alice, Followed: alice},
	)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.request(
		t,
		http.MethodDelete,
		"/v0/follows",
		api.FollowRequest{Follower: alice, Followed: bob},
	)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Repeat unfollow is a 404
	rec = s.request(
		t,
		http.MethodDelete,
		"/v0/follows",
		api.FollowRequest{Follower: alice, Followed: bob},
	)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostFlowEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.newUser(t, "alice")
	bob := s.newUser(t, "bob")

	rec := s.request(
		t,
		http.MethodPost,
		"/v0/communities",
		api.CreateCommunityRequest{
			Creator:     alice,
			CommunityID: 1,
			Name:        "test",
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code)
	communityAddr := decodeAddress(t, rec)

	// Posting without membership is forbidden
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/posts",
		api.CreatePostRequest{
			Author:     bob,
			Community:  communityAddr,
			ContentURI: "ipfs://content",
		},
	)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.request(
		t,
		http.MethodPost,
		"/v0/memberships",
		api.MembershipRequest{User: bob, Community: communityAddr},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.request(
		t,
		http.MethodPost,
		"/v0/posts",
		api.CreatePostRequest{
			Author:      bob,
			Community:   communityAddr,
			ContentURI:  "ipfs://content",
			ContentHash: strings.Repeat("ab", record.ContentHashSize),
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code)
	postAddr := decodeAddress(t, rec)
	assert.Equal(t, record.PostAddress(communityAddr, 0), postAddr)

	// Malformed content hash
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/posts",
		api.CreatePostRequest{
			Author:      bob,
			Community:   communityAddr,
			ContentURI:  "ipfs://content",
			ContentHash: "zzz",
		},
	)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Liking from outside the community is forbidden
	carol := s.newUser(t, "carol")
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/likes",
		api.LikeRequest{Liker: carol, Post: postAddr},
	)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.request(
		t,
		http.MethodPost,
		"/v0/likes",
		api.LikeRequest{Liker: alice, Post: postAddr},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.request(
		t,
		http.MethodPost,
		"/v0/comments",
		api.CommentRequest{
			Commenter:  alice,
			Post:       postAddr,
			ContentURI: "ipfs://reply",
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.request(
		t,
		http.MethodPost,
		"/v0/tips",
		api.TipRequest{
			Tipper:    alice,
			Post:      postAddr,
			Recipient: bob,
			Amount:    record.FixedTipAmount,
		},
	)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Wrong tip amount is unprocessable
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/tips",
		api.TipRequest{
			Tipper:    alice,
			Post:      postAddr,
			Recipient: bob,
			Amount:    1,
		},
	)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPollEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.newUser(t, "alice")
	rec := s.request(
		t,
		http.MethodPost,
		"/v0/communities",
		api.CreateCommunityRequest{
			Creator:     alice,
			CommunityID: 1,
			Name:        "test",
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code)
	communityAddr := decodeAddress(t, rec)

	options := []address.Address{
		record.ProfileAddress(alice),
		address.Derive("profile", []byte("other")),
	}
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/polls",
		api.CreatePollRequest{
			Creator:     alice,
			Community:   communityAddr,
			QuestionURI: "ipfs://question",
			Options:     options,
			EndTime:     9_999_999_999,
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code)
	pollAddr := decodeAddress(t, rec)

	rec = s.request(
		t,
		http.MethodPost,
		"/v0/votes",
		api.VoteRequest{Voter: alice, Poll: pollAddr, OptionIndex: 0},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Double vote is a conflict
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/votes",
		api.VoteRequest{Voter: alice, Poll: pollAddr, OptionIndex: 1},
	)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Option index out of range is unprocessable
	bob := s.newUser(t, "bob")
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/memberships",
		api.MembershipRequest{User: bob, Community: communityAddr},
	)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.request(
		t,
		http.MethodPost,
		"/v0/votes",
		api.VoteRequest{Voter: bob, Poll: pollAddr, OptionIndex: 9},
	)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUnknownFieldRejected(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(
		http.MethodPost,
		"/v0/profiles",
		bytes.NewBufferString(`{"bogus": true}`),
	)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
