package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAdminToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name     string
		expected string
		sent     string
		status   int
	}{
		{"matching token", "s3cret", "s3cret", http.StatusNoContent},
		{"wrong token", "s3cret", "guess", http.StatusUnauthorized},
		{"missing token", "s3cret", "", http.StatusUnauthorized},
		{"unconfigured token rejects everything", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/licenses/LIC/lift", nil)
			if tt.sent != "" {
				req.Header.Set(TokenHeader, tt.sent)
			}
			rr := httptest.NewRecorder()
			RequireAdminToken(tt.expected, logger)(ok).ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}
