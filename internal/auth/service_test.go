package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/rohanverma/vastra-backend/pkg/auth"
	"github.com/rohanverma/vastra-backend/pkg/auth/session"
	"github.com/rohanverma/vastra-backend/pkg/config"
	"github.com/rohanverma/vastra-backend/pkg/db/models"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/security"
)

type stubUserRepo struct {
	user       *models.User
	lastLogins []uuid.UUID
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins = append(s.lastLogins, id)
	return nil
}

type stubSessionManager struct {
	refreshToken string
	revoked      []string
	rotateErr    error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "vastra",
		ExpirationMinutes: 30,
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()
	userRepo := &stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, userRepo, sessionMgr
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func testUser(t *testing.T, password string, role enums.UserRole) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Asha",
		LastName:     "Verma",
		Role:         role,
		IsActive:     true,
	}
}

func TestServiceLoginIssuesTokens(t *testing.T) {
	password := "shopper-secret"
	user := testUser(t, password, enums.UserRoleCustomer)
	svc, userRepo, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if len(userRepo.lastLogins) != 1 {
		t.Fatalf("expected last login recorded once, got %d", len(userRepo.lastLogins))
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user payload in response")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := testUser(t, "right-password", enums.UserRoleCustomer)
	svc, _, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "secret-pass"
	user := testUser(t, password, enums.UserRoleCustomer)
	user.IsActive = false
	svc, _, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error for inactive user, got %v", err)
	}
}

func TestServiceAdminLoginRejectsCustomer(t *testing.T) {
	password := "customer-pass"
	user := testUser(t, password, enums.UserRoleCustomer)
	svc, _, _ := buildTestService(t, user)

	_, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for customer on admin login, got %v", err)
	}
}

func TestServiceAdminLoginAllowsAdmin(t *testing.T) {
	password := "admin-pass"
	user := testUser(t, password, enums.UserRoleAdmin)
	svc, _, _ := buildTestService(t, user)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role claim, got %s", claims.Role)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	password := "refresh-pass"
	user := testUser(t, password, enums.UserRoleCustomer)
	svc, _, _ := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.ID != "new-access-id" {
		t.Fatalf("expected rotated jti, got %s", claims.ID)
	}
	if resp.RefreshToken != "new-refresh-token" {
		t.Fatalf("expected rotated refresh token, got %s", resp.RefreshToken)
	}
}

func TestServiceRefreshInvalidToken(t *testing.T) {
	password := "refresh-pass"
	user := testUser(t, password, enums.UserRoleCustomer)
	userRepo := &stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "stolen-token",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized on invalid refresh token, got %v", err)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	user := testUser(t, "any-pass", enums.UserRoleCustomer)
	svc, _, sessionMgr := buildTestService(t, user)

	if err := svc.Logout(context.Background(), "access-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessionMgr.revoked) != 1 || sessionMgr.revoked[0] != "access-123" {
		t.Fatalf("expected session revoked, got %v", sessionMgr.revoked)
	}

	if err := svc.Logout(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}
