package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/dariosuarez/softmart-backend/pkg/auth"
	"github.com/dariosuarez/softmart-backend/pkg/auth/session"
	"github.com/dariosuarez/softmart-backend/pkg/config"
	"github.com/dariosuarez/softmart-backend/pkg/db/models"
	"github.com/dariosuarez/softmart-backend/pkg/enums"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "softmart-test",
	ExpirationMinutes: 15,
}

type stubUserRepo struct {
	user *models.User
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if r.user == nil || r.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return r.user, nil
}

type stubSessionManager struct {
	generated []string
	rotateErr error
	revoked   []string
}

func (m *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	m.generated = append(m.generated, accessID)
	return "refresh-" + accessID, nil
}

func (m *stubSessionManager) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	if m.rotateErr != nil {
		return "", "", m.rotateErr
	}
	newID := "rotated-" + oldAccessID
	return newID, "refresh-" + newID, nil
}

func (m *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	m.revoked = append(m.revoked, accessID)
	return nil
}

func newAuthFixture(t *testing.T, password string) (Service, *stubSessionManager, *models.User) {
	t.Helper()

	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Dana",
		Email:        "dana@example.com",
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	}
	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{user: user},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		Now:            func() time.Time { return time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, sessions, user
}

func TestLoginSuccess(t *testing.T) {
	svc, sessions, user := newAuthFixture(t, "hunter2!")

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Dana@Example.com ", Password: "hunter2!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.generated))
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != sessions.generated[0] {
		t.Fatal("jti must match the stored session access id")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t, "hunter2!")

	_, err := svc.Login(context.Background(), LoginRequest{Email: "dana@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t, "hunter2!")

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "hunter2!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, _ := newAuthFixture(t, "hunter2!")

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "dana@example.com", Password: "hunter2!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), resp.AccessToken, resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatal("expected rotated pair")
	}
	if refreshed.AccessToken == resp.AccessToken {
		t.Fatal("access token must change on refresh")
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	svc, sessions, _ := newAuthFixture(t, "hunter2!")
	sessions.rotateErr = session.ErrInvalidRefreshToken

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "dana@example.com", Password: "hunter2!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), resp.AccessToken, "stolen")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions, _ := newAuthFixture(t, "hunter2!")

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-id" {
		t.Fatalf("session not revoked: %v", sessions.revoked)
	}

	err := svc.Logout(context.Background(), "  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}
