package apperr

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantKind   Kind
		wantStatus int
	}{
		{name: "plain error", err: errors.New("boom"), wantKind: KindInternal, wantStatus: http.StatusInternalServerError},
		{name: "validation", err: Validation("bad"), wantKind: KindValidation, wantStatus: http.StatusUnprocessableEntity},
		{name: "not found", err: NotFound("role"), wantKind: KindNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", err: Forbidden("no"), wantKind: KindForbidden, wantStatus: http.StatusForbidden},
		{name: "conflict", err: Conflict("dup"), wantKind: KindConflict, wantStatus: http.StatusConflict},
		{name: "unauthorized", err: Unauthorized("who"), wantKind: KindUnauthorized, wantStatus: http.StatusUnauthorized},
		{
			name:       "wrapped with pkg/errors",
			err:        errors.Wrap(Forbidden("system role"), "update role"),
			wantKind:   KindForbidden,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantKind, KindOf(tc.err))
			assert.Equal(t, tc.wantStatus, HTTPStatus(KindOf(tc.err)))
		})
	}
}

func TestIs(t *testing.T) {
	errRoleNotFound := NotFound("role")

	err := errors.Wrap(NotFound("role"), "load")
	require.ErrorIs(t, err, errRoleNotFound)
	require.ErrorIs(t, err, &Error{Kind: KindNotFound})
	assert.NotErrorIs(t, err, NotFound("user"))
	assert.NotErrorIs(t, err, Forbidden(""))
}

func TestWithField(t *testing.T) {
	err := Validation("invalid permissions").
		WithField("permissions", "unknown permission: a").
		WithField("permissions", "unknown permission: b")

	assert.Equal(t, []string{"unknown permission: a", "unknown permission: b"}, err.Fields["permissions"])
	assert.Equal(t, "validation: invalid permissions", err.Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindInternal, "store document", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}
