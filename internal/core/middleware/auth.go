package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/logger"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
)

type contextKey string

const ContextUserID contextKey = "userID"

// UserID returns the authenticated user id placed in the context by Auth.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ContextUserID).(uuid.UUID)
	return id, ok
}

// Auth validates the Authorization bearer token and resolves its subject claim
// to the user id for downstream handlers.
func Auth(secret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "missing bearer token")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				log.Warn("Invalid bearer token",
					logger.StringField("path", r.URL.Path),
					logger.ErrorField("error", err))
				unauthorized(w, "invalid token")
				return
			}

			sub, err := token.Claims.GetSubject()
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				log.Warn("Token subject is not a user id",
					logger.StringField("subject", sub))
				unauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.APIResponse{Success: false, Error: message})
}
