package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/trip-explorer/internal/auth"
	"github.com/pkordes/trip-explorer/internal/handler/gen"
)

// devTokenTTL is the lifetime of tokens minted by POST /auth/dev-token.
const devTokenTTL = 24 * time.Hour

// RequireSession returns a gen.MiddlewareFunc that resolves the caller of
// every secured operation through guard. Unauthenticated callers get 401
// and the operation never runs; authenticated ones continue with the
// identity stored in the request context (see auth.IdentityFromContext).
// Public operations pass through untouched.
func RequireSession(guard auth.Guard) gen.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secured(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := guard.Identity(r)
			if err != nil {
				slog.DebugContext(r.Context(), "session rejected", "path", r.URL.Path, "error", err)
				writeJSON(w, http.StatusUnauthorized, unauthorizedBody())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// secured reports whether the generated router tagged the request with the
// security scopes of a protected operation.
func secured(ctx context.Context) bool {
	return ctx.Value(gen.BearerAuthScopes) != nil || ctx.Value(gen.SessionCookieScopes) != nil
}

// GetSession handles GET /session.
func (s *Server) GetSession(ctx context.Context, _ gen.GetSessionRequestObject) (gen.GetSessionResponseObject, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return gen.GetSession401JSONResponse(unauthorizedBody()), nil
	}
	return gen.GetSession200JSONResponse{Email: identity}, nil
}

// CreateDevToken handles POST /auth/dev-token.
// It answers 404 unless the server was built with a TokenIssuer.
func (s *Server) CreateDevToken(ctx context.Context, req gen.CreateDevTokenRequestObject) (gen.CreateDevTokenResponseObject, error) {
	if s.tokens == nil {
		return gen.CreateDevToken404JSONResponse(notFoundBody("dev login is disabled")), nil
	}
	if req.Body == nil || strings.TrimSpace(string(req.Body.Email)) == "" {
		return gen.CreateDevToken422JSONResponse(requestBody("email is required")), nil
	}

	email := strings.TrimSpace(string(req.Body.Email))
	token, err := s.tokens.Issue(email, devTokenTTL)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "dev token issued", "email", email)
	return gen.CreateDevToken200JSONResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(devTokenTTL).UTC(),
	}, nil
}
