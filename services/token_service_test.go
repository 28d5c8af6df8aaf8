package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"quizhub/models"
)

func TestIssueAndVerifyAccessToken(t *testing.T) {
	db := newTestDB(t)
	tokens := newTestTokenService(db)
	user := createTestUser(t, db, "alice@example.com", models.RoleEditor)

	tokenString, err := tokens.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := tokens.VerifyAccessToken(tokenString)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %d, got %d", user.ID, claims.UserID)
	}
	if claims.Username != user.Username || claims.Email != user.Email {
		t.Fatalf("claims do not match user: %+v", claims)
	}
	if claims.Role != models.RoleEditor {
		t.Fatalf("expected role editor, got %q", claims.Role)
	}
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com", models.RoleUser)

	expired := NewTokenService(db, "test-access-secret", "test-refresh-secret", -time.Minute, 7*24*time.Hour)
	tokenString, err := expired.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = newTestTokenService(db).VerifyAccessToken(tokenString)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com", models.RoleUser)

	other := NewTokenService(db, "a-different-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	tokenString, err := other.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = newTestTokenService(db).VerifyAccessToken(tokenString)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	db := newTestDB(t)
	tokens := newTestTokenService(db)

	_, err := tokens.VerifyAccessToken("not.a.token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRegisterSessionFIFOEviction(t *testing.T) {
	db := newTestDB(t)
	tokens := newTestTokenService(db)
	user := createTestUser(t, db, "alice@example.com", models.RoleUser)

	for i := 1; i <= 5; i++ {
		token := fmt.Sprintf("refresh-token-%d", i)
		if err := tokens.RegisterSession(user, token, ClientMetadata{UserAgent: "test"}); err != nil {
			t.Fatalf("register %d failed: %v", i, err)
		}

		var sessions []models.Session
		if err := db.Where("user_id = ?", user.ID).Order("created_at ASC, id ASC").Find(&sessions).Error; err != nil {
			t.Fatalf("list sessions failed: %v", err)
		}

		want := i
		if want > user.MaxSessions {
			want = user.MaxSessions
		}
		if len(sessions) != want {
			t.Fatalf("after %d logins expected %d sessions, got %d", i, want, len(sessions))
		}
	}

	// Only the two most recent tokens survive.
	var sessions []models.Session
	if err := db.Where("user_id = ?", user.ID).Order("created_at ASC, id ASC").Find(&sessions).Error; err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if sessions[0].Token != "refresh-token-4" || sessions[1].Token != "refresh-token-5" {
		t.Fatalf("expected tokens 4 and 5, got %q and %q", sessions[0].Token, sessions[1].Token)
	}
}

func TestRevokeSessionExactMatch(t *testing.T) {
	db := newTestDB(t)
	tokens := newTestTokenService(db)
	user := createTestUser(t, db, "alice@example.com", models.RoleUser)

	for _, token := range []string{"token-a", "token-b"} {
		if err := tokens.RegisterSession(user, token, ClientMetadata{}); err != nil {
			t.Fatalf("register failed: %v", err)
		}
	}

	if err := tokens.RevokeSession(user.ID, "token-a"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	var sessions []models.Session
	if err := db.Where("user_id = ?", user.ID).Find(&sessions).Error; err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Token != "token-b" {
		t.Fatalf("expected only token-b to remain, got %+v", sessions)
	}

	// Revoking an absent token is a no-op, not an error.
	if err := tokens.RevokeSession(user.ID, "token-unknown"); err != nil {
		t.Fatalf("revoking unknown token should not fail: %v", err)
	}
	if err := db.Where("user_id = ?", user.ID).Find(&sessions).Error; err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session after no-op revoke, got %d", len(sessions))
	}
}

func TestFindSession(t *testing.T) {
	db := newTestDB(t)
	tokens := newTestTokenService(db)
	user := createTestUser(t, db, "alice@example.com", models.RoleUser)

	if err := tokens.RegisterSession(user, "token-a", ClientMetadata{UserAgent: "firefox", IPAddress: "10.0.0.1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, err := tokens.FindSession("token-a")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if session.UserID != user.ID || session.UserAgent != "firefox" || session.IPAddress != "10.0.0.1" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Expired(time.Now()) {
		t.Fatalf("fresh session should not be expired")
	}

	if _, err := tokens.FindSession("token-unknown"); err == nil {
		t.Fatalf("expected error for unknown token")
	}
}
