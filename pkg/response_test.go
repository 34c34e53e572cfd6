package pkg

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestErrorMapsWrappedSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: post", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: token", ErrUnauthorized), http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: username", ErrAlreadyExists), http.StatusConflict},
		{fmt.Errorf("%w: limit", ErrBadRequest), http.StatusBadRequest},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code)

		var env Envelope[json.RawMessage]
		assert.Equal(t, nil, json.NewDecoder(rec.Body).Decode(&env))
		assert.Equal(t, false, env.Success)
		assert.Equal(t, tc.err.Error(), env.Error)
	}
}

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"n": 2})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope[map[string]int]
	assert.Equal(t, nil, json.NewDecoder(rec.Body).Decode(&env))
	assert.Equal(t, true, env.Success)
	assert.Equal(t, 2, env.Data["n"])
}
