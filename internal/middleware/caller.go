package middleware

import (
	"context"
	"net/http"
	"strings"

	"dominik-store/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const callerKey contextKey = "caller"

// WithCaller returns a copy of ctx carrying caller
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom returns the caller stored by IdentifyCaller, or an anonymous one
func CallerFrom(ctx context.Context) domain.Caller {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	if !ok {
		return domain.AnonymousCaller()
	}
	return caller
}

// IdentifyCaller attaches a Caller to every request. A valid HMAC bearer token
// identifies the user by its "user_id" claim, falling back to "sub". Requests
// without a usable token continue as anonymous.
func IdentifyCaller(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := domain.AnonymousCaller()

			if tokenString, ok := bearerToken(r.Header.Get("Authorization")); ok {
				userID, err := parseUserID(tokenString, jwtSecret)
				if err != nil {
					logger.Debug("Ignoring bearer token", zap.Error(err))
				} else {
					caller = domain.Caller{UserID: userID}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// RequireCaller rejects anonymous callers with 401
func RequireCaller(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !CallerFrom(r.Context()).Identified() {
				logger.Debug("Anonymous caller rejected", zap.String("path", r.URL.Path))
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func parseUserID(tokenString, secret string) (string, error) {
	if secret == "" {
		return "", jwt.ErrTokenUnverifiable
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return "", err
	}

	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", jwt.ErrTokenInvalidClaims
}
