package middleware

import (
	"macarabia_sync/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// AdminAuthMiddleware protects the operator read endpoints with a bearer
// JWT. The webhook endpoint is not behind this: its authentication is the
// HMAC signature.
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mw.cfg.Admin.JWTSecret == "" {
			mw.logger.Warn("Admin JWT secret not configured, operator endpoints disabled")
			gecho.Unauthorized(w, gecho.WithMessage("Operator access not configured"), gecho.Send())
			return
		}

		claims, err := lib.ExtractAdminClaims(r, mw.cfg.Admin.JWTSecret)
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		if claims.Role != "admin" {
			mw.logger.Warn("Non-admin token on operator route",
				gecho.Field("sub", claims.Sub),
				gecho.Field("role", claims.Role),
			)
			gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}
