package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gotest.tools/assert"

	"investory/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.ErrUserNotFound, http.StatusNotFound},
		{apperr.ErrStockNotFound, http.StatusNotFound},
		{apperr.ErrOrderNotFound, http.StatusNotFound},
		{apperr.ErrInvalidOrderPrice, http.StatusBadRequest},
		{apperr.ErrInsufficientHolding, http.StatusBadRequest},
		{apperr.ErrOrderCannotCancel, http.StatusBadRequest},
		{apperr.New(apperr.KindInvalidInput, "bad quantity"), http.StatusBadRequest},
		{apperr.ErrAccessDenied, http.StatusForbidden},
		{apperr.ErrVersionConflict, http.StatusConflict},
		{errors.New("pool closed"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, apperr.HTTPStatus(c.err), c.status, c.err.Error())
	}
}

func TestKindOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("create order: %w", apperr.ErrInsufficientHolding)
	assert.Equal(t, apperr.KindOf(wrapped), apperr.KindInsufficientHolding)
	assert.Assert(t, apperr.IsKind(wrapped, apperr.KindInsufficientHolding))
	assert.Assert(t, !apperr.IsKind(wrapped, apperr.KindNotFound))
	assert.Equal(t, apperr.KindOf(errors.New("plain")), apperr.KindUnknown)
}
