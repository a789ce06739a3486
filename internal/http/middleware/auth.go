package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

type actorKey struct{}

// Claims are the bearer token claims the API accepts. Subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errMalformedToken = errors.New("malformed bearer token")

// WithActor stores the authenticated actor in ctx.
func WithActor(ctx context.Context, a domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor set by Auth.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(domain.Actor)
	return a, ok
}

// Auth verifies HS256 bearer tokens and puts the actor into the request context.
// Requests without a valid token get 401.
func Auth(logger logx.Logger, secret []byte) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := authenticate(parser, keyFunc, r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn("unauthorized request",
					logx.String("method", r.Method),
					logx.String("path", r.URL.Path),
					logx.Err(err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"error":"unauthorized"}`)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func authenticate(parser *jwt.Parser, keyFunc jwt.Keyfunc, header string) (domain.Actor, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return domain.Actor{}, errMalformedToken
	}

	var claims Claims
	if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, keyFunc); err != nil {
		return domain.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.Actor{}, fmt.Errorf("invalid subject %q", claims.Subject)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Actor{}, fmt.Errorf("invalid role %q", claims.Role)
	}
	return domain.Actor{ID: id, Role: role}, nil
}

// SignToken issues an HS256 token for the actor. Used by tests and local tooling.
func SignToken(secret []byte, a domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(a.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(a.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
