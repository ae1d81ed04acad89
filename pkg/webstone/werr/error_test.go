//go:build unit

package werr

import (
	"net/http"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{
			name: "bad request",
			err:  BadRequest(nil, "nope"),
			want: http.StatusBadRequest,
		},
		{
			name: "unauthorized",
			err:  Unauthorized("/profile"),
			want: http.StatusUnauthorized,
		},
		{
			name: "email not validated maps to unauthorized",
			err:  EmailNotValidated(),
			want: http.StatusUnauthorized,
		},
		{
			name: "forbidden",
			err:  Forbidden("nope"),
			want: http.StatusForbidden,
		},
		{
			name: "not found",
			err:  NotFound(),
			want: http.StatusNotFound,
		},
		{
			name: "method not allowed",
			err:  MethodNotAllowed("PUT"),
			want: http.StatusMethodNotAllowed,
		},
		{
			name: "internal server",
			err:  InternalServer(errors.New("boom")),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")

	err := BadRequest(cause, "malformed form body")
	assert.Equal(t, "malformed form body: boom", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))

	assert.Equal(t, "not found", NotFound().Error())
}

func TestUnauthorized_RecordsRedirectPath(t *testing.T) {
	err := Unauthorized("/settings")
	assert.Equal(t, KindUnauthorized, err.Kind)
	assert.Equal(t, "/settings", err.RedirectPath)
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	// Structured errors pass through untouched
	perr := NotFound()
	assert.Same(t, perr, From(perr))

	wrapped := errors.Wrap(perr, "while serving")
	assert.Same(t, perr, From(wrapped))

	// Everything else becomes an internal server error
	got := From(errors.New("boom"))
	require.NotNil(t, got)
	assert.Equal(t, KindInternalServer, got.Kind)
}
