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

	"github.com/blinklabs-io/slick/database"
)

// Enumerated failure reasons. Every validation failure aborts the entire
// operation with no partial mutation; nothing is retried internally and no
// arithmetic near a limit ever saturates or wraps.
var (
	// Length ceilings
	ErrDisplayNameTooLong    = errors.New("display name is too long")
	ErrAvatarURITooLong      = errors.New("avatar URI is too long")
	ErrCommunityNameTooLong  = errors.New("community name is too long")
	ErrDescriptionURITooLong = errors.New(
		"description URI is too long",
	)
	ErrContentURITooLong  = errors.New("content URI is too long")
	ErrQuestionURITooLong = errors.New("question URI is too long")
	ErrPseudonymTooLong   = errors.New("pseudonym is too long")

	// Anonymity exclusivity
	ErrPseudonymRequired = errors.New(
		"pseudonym is required for anonymous posts",
	)
	ErrPseudonymNotAllowed = errors.New(
		"pseudonym not allowed for non-anonymous posts",
	)

	// Self-reference
	ErrCannotFollowSelf  = errors.New("cannot follow yourself")
	ErrCannotLikeOwnPost = errors.New("cannot like your own post")
	ErrCannotTipOwnPost  = errors.New("cannot tip your own post")

	// Missing prerequisite records
	ErrProfileRequired    = errors.New("profile required")
	ErrMembershipRequired = errors.New("membership required")

	// Authorization and relation integrity
	ErrNotAuthorized   = errors.New("not authorized")
	ErrAddressMismatch = errors.New(
		"supplied address does not match expected derivation",
	)

	// Poll cardinality and timing
	ErrTooFewPollOptions  = errors.New("too few poll options")
	ErrTooManyPollOptions = errors.New("too many poll options")
	ErrPollEnded          = errors.New("poll has ended")
	ErrEndTimeNotFuture   = errors.New("poll end time is not in the future")
	ErrInvalidPollOption  = errors.New("invalid poll option")

	// Tipping value rules
	ErrInvalidTipAmount  = errors.New("invalid tip amount")
	ErrWrongTipRecipient = errors.New("tip recipient is not the post author")

	// Checked arithmetic
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")

	// Host resource accounting
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Storage errors surfaced through the engine. ErrAlreadyExists is the
// duplicate-relation failure (address collision); ErrNotFound is the
// missing-record failure.
var (
	ErrAlreadyExists = database.ErrRecordExists
	ErrNotFound      = database.ErrRecordNotFound
)
