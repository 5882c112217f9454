package handler

import (
	"errors"
	"net/http"

	"gamehub/internal/httputil"
	"gamehub/internal/model"
)

// writeDomainError maps the operation error taxonomy onto HTTP statuses:
// validation 400, authentication 401, not found 404, duplicate 409, storage
// 503. The sentinel's message is the user-facing text.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrPasswordMismatch),
		errors.Is(err, model.ErrUsernameTooShort),
		errors.Is(err, model.ErrMissingTitle),
		errors.Is(err, model.ErrMissingDescription),
		errors.Is(err, model.ErrSelfFriend):
		httputil.WriteBadRequest(w, err.Error())

	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrNotAuthenticated):
		httputil.WriteUnauthorized(w, err.Error())

	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, err.Error())

	case errors.Is(err, model.ErrUsernameTaken),
		errors.Is(err, model.ErrAlreadyFriends):
		httputil.WriteConflict(w, err.Error())

	case errors.Is(err, model.ErrStorageUnavailable):
		httputil.WriteUnavailable(w, model.ErrStorageUnavailable.Error())

	default:
		httputil.WriteInternalError(w, "operation failed")
	}
}
