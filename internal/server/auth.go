package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig holds session issuance and verification settings.
type AuthConfig struct {
	JWTSecret  []byte
	CookieName string
	SessionTTL time.Duration
	Logger     *log.Logger
}

func (c AuthConfig) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// Principal identifies the authenticated admin for a request.
type Principal struct {
	AdminID string
	Email   string
	// Source is "cookie" or "bearer".
	Source string
}

type principalKey struct{}

func principalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func (c AuthConfig) issueSession(adminID, email string, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.SessionTTL)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.JWTSecret)
}

func (c AuthConfig) authenticateSession(tokenString string) (Principal, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	var claims sessionClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return c.JWTSecret, nil
	})
	if err != nil {
		return Principal{}, err
	}
	return Principal{AdminID: claims.Subject, Email: claims.Email}, nil
}

// newAuthMiddleware guards everything under basePath except the public
// endpoints. A session is accepted from the configured cookie or from an
// Authorization bearer header.
func newAuthMiddleware(cfg AuthConfig, basePath string) func(http.Handler) http.Handler {
	exempt := map[string]bool{
		basePath + "/health":          true,
		basePath + "/auth/login":      true,
		basePath + "/intake/requests": true,
		basePath + "/openapi.json":    true,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, basePath) || exempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			var tokenString, source string
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				tokenString, source = cookie.Value, "cookie"
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenString, source = strings.TrimPrefix(h, "Bearer "), "bearer"
			}
			if tokenString == "" {
				respondStatusError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			p, err := cfg.authenticateSession(tokenString)
			if err != nil {
				cfg.logger().Printf("rejected %s session for %s %s: %v", source, r.Method, r.URL.Path, err)
				respondStatusError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
				return
			}
			p.Source = source
			ctx := context.WithValue(r.Context(), principalKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondStatusError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}
