package handlers

import (
	"context"
	"listingBoard/internal/models"
	"listingBoard/internal/storage"
	"net/http"
	"strings"
	"time"
)

type sessionKey struct{}

func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session the authorization middleware attached to the request.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*models.Session)
	return session, ok && session != nil
}

func (a *Auth) AuthorizationMiddleware(next http.Handler, onlyReviewer bool, db storage.Database) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := a.parse(tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		if !models.ValidUserType(claims.Type) {
			writeError(w, http.StatusUnauthorized, `Invalid authorization token`)
			return
		}

		if !strings.HasPrefix(claims.UserId, dummyUserPrefix) {
			if _, err := db.GetUserById(r.Context(), claims.UserId); err != nil {
				writeError(w, http.StatusUnauthorized, `Invalid authorization token`)
				return
			}
		}

		if onlyReviewer && !models.IsReviewer(claims.Type) {
			writeError(w, http.StatusForbidden, "You are not a reviewer")
			return
		}

		var issuedAt time.Time
		if claims.IssuedAt != nil {
			issuedAt = claims.IssuedAt.Time
		}

		ctx := WithSession(r.Context(), &models.Session{
			Token:     tokenStr,
			UserId:    claims.UserId,
			UserType:  claims.Type,
			CreatedAt: issuedAt,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
