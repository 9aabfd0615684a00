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
	"errors"
	"net/http"

	"github.com/blinklabs-io/slick/ledger"
	"github.com/blinklabs-io/slick/record"
)

// validationErrors are engine failures reported as unprocessable input.
var validationErrors = []error{
	ledger.ErrDisplayNameTooLong,
	ledger.ErrAvatarURITooLong,
	ledger.ErrCommunityNameTooLong,
	ledger.ErrDescriptionURITooLong,
	ledger.ErrContentURITooLong,
	ledger.ErrQuestionURITooLong,
	ledger.ErrPseudonymTooLong,
	ledger.ErrPseudonymRequired,
	ledger.ErrPseudonymNotAllowed,
	ledger.ErrCannotFollowSelf,
	ledger.ErrCannotLikeOwnPost,
	ledger.ErrCannotTipOwnPost,
	ledger.ErrAddressMismatch,
	ledger.ErrTooFewPollOptions,
	ledger.ErrTooManyPollOptions,
	ledger.ErrPollEnded,
	ledger.ErrEndTimeNotFuture,
	ledger.ErrInvalidPollOption,
	ledger.ErrInvalidTipAmount,
	ledger.ErrWrongTipRecipient,
}

// statusForError maps an engine failure to an HTTP status code.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadyExists),
		errors.Is(err, ledger.ErrArithmeticOverflow),
		errors.Is(err, ledger.ErrArithmeticUnderflow):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrNotAuthorized),
		errors.Is(err, ledger.ErrProfileRequired),
		errors.Is(err, ledger.ErrMembershipRequired):
		return http.StatusForbidden
	case errors.Is(err, record.ErrCorruptRecord),
		errors.Is(err, record.ErrUnknownKind):
		return http.StatusInternalServerError
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// writeError writes an engine failure as a JSON error response.
func (a *Api) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		a.logger.Error(
			"internal error",
			"error", err,
		)
	}
	writeJSON(w, status, ErrorResponse{
		Error:      http.StatusText(status),
		Message:    err.Error(),
		StatusCode: status,
	})
}

// writeBadRequest reports a malformed request body or path parameter.
func (a *Api) writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:      http.StatusText(http.StatusBadRequest),
		Message:    err.Error(),
		StatusCode: http.StatusBadRequest,
	})
}
