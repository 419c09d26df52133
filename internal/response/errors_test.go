package response

import (
	"errors"
	"net/http"
	"testing"

	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   ErrCode
	}{
		{"validation", apperr.New(apperr.KindValidation, "bad"), http.StatusBadRequest, ErrValidation},
		{"unauthorized", apperr.New(apperr.KindUnauthorized, "nope"), http.StatusUnauthorized, ErrInvalidCredentials},
		{"forbidden", apperr.New(apperr.KindForbidden, "nope"), http.StatusForbidden, ErrForbidden},
		{"not found", apperr.New(apperr.KindNotFound, "missing"), http.StatusNotFound, ErrNotFound},
		{"conflict", apperr.New(apperr.KindConflict, "taken"), http.StatusConflict, ErrConflict},
		{"transient", apperr.New(apperr.KindTransient, "db down"), http.StatusServiceUnavailable, ErrTransient},
		{"plain error", errors.New("boom"), http.StatusServiceUnavailable, ErrTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := MapError(tc.err)
			if status != tc.status || code != tc.code {
				t.Errorf("MapError = (%d, %s), want (%d, %s)", status, code, tc.status, tc.code)
			}
		})
	}
}

func TestGetMessageCoversAllCodes(t *testing.T) {
	codes := []ErrCode{
		ErrInvalidCredentials, ErrSessionInvalidated, ErrTokenRequired, ErrTokenInvalid,
		ErrForbidden, ErrStudentAccessOnly, ErrTeacherAccessOnly, ErrAdminAccessOnly,
		ErrValidation, ErrInvalidID, ErrInvalidPayload,
		ErrNotFound, ErrConflict, ErrRateLimitExceeded, ErrTransient, ErrInternal,
	}
	for _, code := range codes {
		if GetMessage(code) == "" {
			t.Errorf("GetMessage(%s) is empty", code)
		}
	}
}
