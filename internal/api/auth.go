// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/memezing/engine/internal/logging"
)

// RoleAdmin is required for moderation rule and threshold management.
const RoleAdmin = "admin"

// Claims are the JWT claims carried by admin tokens.
type Claims struct {
	Subject string `json:"sub_name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates HMAC-signed admin tokens. With an
// empty secret authentication is disabled and admin endpoints are open;
// production configuration validation rejects that combination.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator creates the authenticator.
func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	if secret == "" {
		logging.Warn().Msg("JWT secret not configured, admin endpoints are unauthenticated")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl}
}

// Enabled reports whether token validation is active.
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// IssueToken signs a token for the subject with the given role.
func (a *Authenticator) IssueToken(subject, role string) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("JWT secret is not configured")
	}

	now := time.Now()
	claims := &Claims{
		Subject: subject,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and time claims of a token.
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// RequireAdmin gates a route group behind a valid admin bearer token.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		rw := NewResponseWriter(w, r)

		header := r.Header.Get("Authorization")
		if header == "" {
			rw.Unauthorized("missing authorization header")
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			rw.Unauthorized("authorization header must use the Bearer scheme")
			return
		}

		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("rejected admin token")
			rw.Unauthorized("invalid or expired token")
			return
		}
		if claims.Role != RoleAdmin {
			logging.Ctx(r.Context()).Warn().
				Str("subject", claims.Subject).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Msg("access denied, admin role required")
			rw.Forbidden("admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
