// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/shoppinglist/pkg/httpx"
	itemdomain "github.com/ghuser/shoppinglist/services/item/domain"
	settingsdomain "github.com/ghuser/shoppinglist/services/settings/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors, whose
// details are not echoed back.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.ClientMessage(err, status))
}

// IsPersistence reports whether err only says a change was not stored.
// Handlers answer such errors with the mutated state and a warning.
func IsPersistence(err error) bool {
	return errors.Is(err, itemdomain.ErrPersistence) || errors.Is(err, settingsdomain.ErrPersistence)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound),
		errors.Is(err, settingsdomain.ErrSettingsNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrInvalidTransition):
		return http.StatusConflict // 409
	case errors.Is(err, itemdomain.ErrInvalidInput),
		errors.Is(err, settingsdomain.ErrInvalidInput):
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusInternalServerError // 500
	}
}
