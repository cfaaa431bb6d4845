// Package requestid assigns each request an ID, reusing a caller-supplied one.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"licenseguard/pkg/requestcontext"
)

const Header = "X-Request-ID"

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
