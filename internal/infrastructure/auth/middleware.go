package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	"github.com/honeynil/KeecashLedger/internal/models"
)

type contextKey struct{}

func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(models.Principal)
	return p, ok
}

func AuthMiddleware(redisClient redis.RedisClient, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "authorization header missing", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			tokenStr := parts[1]
			principal, err := ParseToken([]byte(jwtSecret), tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			// Check token in Redis
			storedToken, err := redisClient.Get(r.Context(), SessionKey(principal.UserID))
			if err != nil || storedToken != tokenStr {
				slog.Error("invalid or revoked token", "user_id", principal.UserID, "error", err)
				http.Error(w, "invalid or revoked token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), *principal)))
		})
	}
}
