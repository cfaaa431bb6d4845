// Package admin guards operator endpoints with a shared token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "licenseguard/pkg/domain-errors"
	"licenseguard/pkg/platform/httputil"
	"licenseguard/pkg/requestcontext"
)

const TokenHeader = "X-Admin-Token"

func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
