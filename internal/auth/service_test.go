package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/sureshop/sureshop-backend/pkg/auth"
	"github.com/sureshop/sureshop-backend/pkg/auth/session"
	"github.com/sureshop/sureshop-backend/pkg/config"
	"github.com/sureshop/sureshop-backend/pkg/db/models"
	"github.com/sureshop/sureshop-backend/pkg/enums"
	pkgerrors "github.com/sureshop/sureshop-backend/pkg/errors"
	"github.com/sureshop/sureshop-backend/pkg/security"
)

type stubUserRepo struct {
	user      *models.User
	lastLogin *time.Time
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubSessionManager struct {
	generated map[string]string
	revoked   []string
	rotateErr error
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{generated: make(map[string]string)}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.generated[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	stored, ok := s.generated[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.generated, oldAccessID)
	newID := uuid.NewString()
	token := "refresh-" + newID
	s.generated[newID] = token
	return newID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.generated, accessID)
	return nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "sureshop",
		ExpirationMinutes: 30,
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()
	repo := &stubUserRepo{user: user}
	manager := newStubSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: manager,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, manager
}

func TestServiceLoginSuccess(t *testing.T) {
	password := "correct-horse"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "megan",
		Email:        "megan@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}

	svc, repo, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "megan", Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("unexpected user id claim %s", claims.UserID)
	}
	if claims.Role != enums.UserRoleUser {
		t.Fatalf("unexpected role claim %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.Username != "megan" {
		t.Fatal("expected sanitized user in response")
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login recorded")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "megan",
		PasswordHash: mustHashPassword(t, "right"),
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
	svc, _, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "megan", Password: "wrong"})
	assertUnauthorized(t, err)
}

func TestServiceLoginUnknownUser(t *testing.T) {
	svc, _, _ := buildTestService(t, nil)
	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	assertUnauthorized(t, err)
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "valid-pass"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "dormant",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleUser,
		IsActive:     false,
	}
	svc, _, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "dormant", Password: password})
	assertUnauthorized(t, err)
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, _, manager := buildTestService(t, nil)

	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(manager.revoked) != 1 || manager.revoked[0] != "access-1" {
		t.Fatalf("expected session revoked, got %v", manager.revoked)
	}

	err := svc.Logout(context.Background(), " ")
	assertUnauthorized(t, err)
}

func TestServiceRefreshRotatesTokens(t *testing.T) {
	password := "correct-horse"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "megan",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
	svc, _, _ := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Username: "megan", Password: password})
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
	if resp.AccessToken == login.AccessToken {
		t.Fatal("expected a new access token")
	}
	if resp.RefreshToken == login.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The old refresh token must be dead after rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err == nil {
		t.Fatal("expected rotation reuse to fail")
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
