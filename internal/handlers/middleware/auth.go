package middleware

import (
	"context"
	"net/http"

	"github.com/jyoon-dev/skyticket/internal/apperrors"
	"github.com/jyoon-dev/skyticket/internal/handlers/memberctx"
	"github.com/jyoon-dev/skyticket/internal/handlers/render"
	"github.com/jyoon-dev/skyticket/internal/models"
)

type authService interface {
	Authenticate(ctx context.Context, r *http.Request) (models.Member, error)
}

// Auth resolves the calling member from the access token and stores it in the
// request context. Requests that fail resolution never reach the handler.
func Auth(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, err := as.Authenticate(r.Context(), r)
			if err != nil {
				render.Fail(w, apperrors.CodeMemberNotFound, "Member could not be found", http.StatusUnauthorized)
				return
			}

			ctx := memberctx.New(r.Context(), member)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
