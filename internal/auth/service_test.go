package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	pkgauth "github.com/mesaqr/mesaqr-backend/pkg/auth"
	"github.com/mesaqr/mesaqr-backend/pkg/config"
	"github.com/mesaqr/mesaqr-backend/pkg/db/models"
	"github.com/mesaqr/mesaqr-backend/pkg/enums"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"github.com/mesaqr/mesaqr-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubLimiter struct {
	denyScopes map[string]bool
	calls      []string
	err        error
}

func (l *stubLimiter) FixedWindowAllow(_ context.Context, scope string, _ int64, _ time.Duration) (bool, int64, error) {
	l.calls = append(l.calls, scope)
	if l.err != nil {
		return false, 0, l.err
	}
	if l.denyScopes[scope] {
		return false, 99, nil
	}
	return true, 1, nil
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS admin_users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'manager',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "mesaqr", ExpirationMinutes: 60}
}

func testLimitConfig() config.AuthRateLimitConfig {
	return config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginUserLimit: 5, LoginIPLimit: 20}
}

func seedAdmin(t *testing.T, db *gorm.DB, username, password string, role enums.AdminRole) models.AdminUser {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16,
	})
	require.NoError(t, err)

	admin := models.AdminUser{Username: username, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func newTestAuthService(t *testing.T, limiter *stubLimiter) (Service, *gorm.DB) {
	t.Helper()
	db := setupAuthTestDB(t)
	svc, err := NewService(NewRepository(db), limiter, testJWTConfig(), testLimitConfig(), nil)
	require.NoError(t, err)
	return svc, db
}

func TestLoginIssuesToken(t *testing.T) {
	limiter := &stubLimiter{}
	svc, db := newTestAuthService(t, limiter)
	ctx := context.Background()

	admin := seedAdmin(t, db, "chef", "secreto123", enums.AdminRoleKitchen)

	result, err := svc.Login(ctx, LoginInput{Username: "chef", Password: "secreto123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, admin.ID, result.AdminID)
	assert.Equal(t, enums.AdminRoleKitchen, result.Role)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, "chef", claims.Username)

	assert.Equal(t, []string{"login:user:chef", "login:ip:10.0.0.1"}, limiter.calls)
}

func TestLoginNormalizesUsername(t *testing.T) {
	svc, db := newTestAuthService(t, &stubLimiter{})
	ctx := context.Background()

	seedAdmin(t, db, "chef", "secreto123", enums.AdminRoleManager)

	_, err := svc.Login(ctx, LoginInput{Username: "  Chef ", Password: "secreto123"})
	require.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, db := newTestAuthService(t, &stubLimiter{})
	ctx := context.Background()

	seedAdmin(t, db, "chef", "secreto123", enums.AdminRoleManager)

	cases := []LoginInput{
		{Username: "chef", Password: "wrong"},
		{Username: "ghost", Password: "secreto123"},
	}
	for _, input := range cases {
		_, err := svc.Login(ctx, input)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, "invalid credentials", typed.Message(), "unknown user and wrong password look identical")
	}
}

func TestLoginRejectsEmptyInput(t *testing.T) {
	svc, _ := newTestAuthService(t, &stubLimiter{})

	_, err := svc.Login(context.Background(), LoginInput{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLoginRateLimited(t *testing.T) {
	limiter := &stubLimiter{denyScopes: map[string]bool{"login:user:chef": true}}
	svc, db := newTestAuthService(t, limiter)
	ctx := context.Background()

	seedAdmin(t, db, "chef", "secreto123", enums.AdminRoleManager)

	_, err := svc.Login(ctx, LoginInput{Username: "chef", Password: "secreto123"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.As(err).Code())
}
