// Package testutil holds HTTP helpers for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// JSONRequest builds a request whose body is body encoded as JSON. A nil body
// sends no payload.
func JSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "encode request body")
		payload = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// RawRequest builds a request with body sent verbatim, for malformed payloads.
func RawRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	if body == "" {
		return httptest.NewRequest(method, path, nil)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// FromClient makes req look like it came through a proxy on behalf of ip.
func FromClient(req *http.Request, ip, userAgent string) *http.Request {
	req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
	req.Header.Set("User-Agent", userAgent)
	return req
}

// Serve runs req through h and returns the recorded response.
func Serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// DecodeBody decodes the JSON response body into T.
func DecodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "decode response body: %s", rr.Body.String())
	return &v
}

// ErrorCode returns the "error" field of an error response.
func ErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	body := DecodeBody[map[string]string](t, rr)
	return (*body)["error"]
}
