package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("missing field"), http.StatusBadRequest},
		{Geocode("no match"), http.StatusBadRequest},
		{Conflict("duplicate"), http.StatusConflict},
		{NotFound("gone"), http.StatusNotFound},
		{Auth("invalid credentials"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{Store(errors.New("disk on fire")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "error: %v", tc.err)
	}
}

func TestMessageHidesStoreDetail(t *testing.T) {
	err := Store(errors.New("pq: connection refused"))
	assert.Equal(t, "internal server error", Message(err))

	assert.Equal(t, "tree not found", Message(NotFound("tree not found")))
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Conflict("duplicate custom_id"))
	assert.True(t, errors.Is(err, New(KindConflict, "")))
	assert.False(t, errors.Is(err, New(KindNotFound, "")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad")))
	assert.Equal(t, KindStore, KindOf(errors.New("anything")))
}
