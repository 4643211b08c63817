// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndValidateToken(t *testing.T) {
	auth := NewAuthenticator(testSecret, time.Hour)

	token, err := auth.IssueToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "ops" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewAuthenticator(testSecret, time.Hour)
	verifier := NewAuthenticator("another-secret-another-secret-32", time.Hour)

	token, err := issuer.IssueToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("expected validation failure for wrong secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	auth := NewAuthenticator(testSecret, time.Hour)
	// Issue with a separate authenticator whose tokens are already expired.
	expired := &Authenticator{secret: []byte(testSecret), ttl: -time.Minute}

	token, err := expired.IssueToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := auth.ValidateToken(token); err == nil {
		t.Error("expected validation failure for expired token")
	}
}

func TestIssueTokenWithoutSecret(t *testing.T) {
	auth := NewAuthenticator("", time.Hour)
	if _, err := auth.IssueToken("ops", RoleAdmin); err == nil {
		t.Error("expected error issuing token without a secret")
	}
}

func TestRequireAdminDisabledAuth(t *testing.T) {
	auth := NewAuthenticator("", time.Hour)

	var called bool
	handler := auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("disabled authenticator must pass requests through")
	}
}

func TestRequireAdminRejectsMalformedHeader(t *testing.T) {
	auth := NewAuthenticator(testSecret, time.Hour)
	handler := auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
