package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/tienditalabs/tiendita-backend/pkg/auth"
	"github.com/tienditalabs/tiendita-backend/pkg/config"
	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
	pkgerrors "github.com/tienditalabs/tiendita-backend/pkg/errors"
	"github.com/tienditalabs/tiendita-backend/pkg/security"
)

type stubAdminUsers struct {
	user *models.AdminUser
	err  error
}

func (s *stubAdminUsers) FindByEmail(context.Context, string) (*models.AdminUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "tiendita-test",
		ExpirationMinutes: 60,
	}
}

func testAdmin(t *testing.T, password string) *models.AdminUser {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.AdminUser{
		ID:           uuid.New(),
		Email:        "admin@tiendita.shop",
		PasswordHash: hash,
	}
}

func newAuthService(t *testing.T, users adminUserFinder) Service {
	t.Helper()
	svc, err := NewService(users, testJWTConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginMintsAdminToken(t *testing.T) {
	t.Parallel()

	admin := testAdmin(t, "s3cret-panel")
	svc := newAuthService(t, &stubAdminUsers{user: admin})

	result, err := svc.Login(context.Background(), " Admin@Tiendita.SHOP ", "s3cret-panel")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.TokenType != "Bearer" {
		t.Fatalf("unexpected token type %q", result.TokenType)
	}
	if result.ExpiresIn != 3600 {
		t.Fatalf("unexpected expiry %d", result.ExpiresIn)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != admin.ID || claims.Role != pkgauth.RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	admin := testAdmin(t, "s3cret-panel")
	svc := newAuthService(t, &stubAdminUsers{user: admin})

	_, err := svc.Login(context.Background(), "admin@tiendita.shop", "wrong")
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, &stubAdminUsers{err: gorm.ErrRecordNotFound})

	_, err := svc.Login(context.Background(), "nobody@tiendita.shop", "whatever")
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginMissingFields(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, &stubAdminUsers{})

	_, err := svc.Login(context.Background(), "", "")
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginRepositoryFailure(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, &stubAdminUsers{err: errors.New("db down")})

	_, err := svc.Login(context.Background(), "admin@tiendita.shop", "s3cret-panel")
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
