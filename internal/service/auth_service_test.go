package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mall-next/internal/config"
	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthServiceDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newAuthServiceForTest(db *gorm.DB) *AuthService {
	return NewAuthService(
		repository.NewUserRepository(db),
		config.JWTConfig{SecretKey: "test-jwt-secret-key-0123456789abcdef", ExpireHours: 2},
		config.CSRFConfig{SecretKey: "test-csrf-secret-key-0123456789abcd"},
	)
}

func createTestUser(t *testing.T, db *gorm.DB, email, password, authority string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "测试用户",
		Authority:    authority,
		IsActive:     active,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &user
}

func TestLoginIssuesSessionAndCSRFTokens(t *testing.T) {
	db := setupAuthServiceDB(t, "login")
	svc := newAuthServiceForTest(db)
	user := createTestUser(t, db, "alice@example.com", "secret123", "customer", true)

	result, err := svc.Login(LoginInput{Email: " Alice@Example.com ", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.UserID != user.ID || result.Authority != "customer" {
		t.Fatalf("unexpected login result: %+v", result)
	}
	if result.ExpireHours != 2 {
		t.Fatalf("expected expire hours 2, got %d", result.ExpireHours)
	}

	claims, err := svc.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != user.ID || claims.Authority != "customer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !svc.VerifyCSRFToken(result.CSRFToken) {
		t.Fatalf("issued csrf token should verify")
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.LastLoginAt == nil {
		t.Fatalf("expected last_login_at touched")
	}
}

func TestLoginRejections(t *testing.T) {
	db := setupAuthServiceDB(t, "rejections")
	svc := newAuthServiceForTest(db)
	createTestUser(t, db, "alice@example.com", "secret123", "customer", true)
	createTestUser(t, db, "blocked@example.com", "secret123", "customer", false)

	if _, err := svc.Login(LoginInput{Email: "", Password: "secret123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty email, got: %v", err)
	}
	if _, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrEmailOrPasswordIncorrect) {
		t.Fatalf("expected credential error for wrong password, got: %v", err)
	}
	// 账号不存在与密码错误返回相同错误
	if _, err := svc.Login(LoginInput{Email: "nobody@example.com", Password: "secret123"}); !errors.Is(err, ErrEmailOrPasswordIncorrect) {
		t.Fatalf("expected credential error for unknown account, got: %v", err)
	}
	if _, err := svc.Login(LoginInput{Email: "blocked@example.com", Password: "secret123"}); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected account disabled, got: %v", err)
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	db := setupAuthServiceDB(t, "foreign_token")
	svc := newAuthServiceForTest(db)

	other := NewAuthService(
		repository.NewUserRepository(db),
		config.JWTConfig{SecretKey: "another-secret-key-0123456789abcdef", ExpireHours: 2},
		config.CSRFConfig{SecretKey: "another-csrf-secret"},
	)
	token, err := other.generateToken(1, "customer")
	if err != nil {
		t.Fatalf("generateToken error: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatalf("expected parse failure for token signed with another secret")
	}
}

func TestCSRFTokenVerification(t *testing.T) {
	db := setupAuthServiceDB(t, "csrf")
	svc := newAuthServiceForTest(db)

	token := svc.IssueCSRFToken()
	if !strings.Contains(token, ".") {
		t.Fatalf("expected token.signature format, got %s", token)
	}
	if !svc.VerifyCSRFToken(token) {
		t.Fatalf("fresh token should verify")
	}

	// 篡改任一部分均校验失败
	parts := strings.SplitN(token, ".", 2)
	if svc.VerifyCSRFToken("tampered." + parts[1]) {
		t.Fatalf("tampered token part should fail")
	}
	if svc.VerifyCSRFToken(parts[0] + ".deadbeef") {
		t.Fatalf("tampered signature should fail")
	}
	if svc.VerifyCSRFToken("") || svc.VerifyCSRFToken("no-separator") {
		t.Fatalf("malformed token should fail")
	}

	// 其他密钥签发的令牌不被承认
	other := NewAuthService(
		repository.NewUserRepository(db),
		config.JWTConfig{SecretKey: "another-secret-key-0123456789abcdef"},
		config.CSRFConfig{SecretKey: "another-csrf-secret"},
	)
	if svc.VerifyCSRFToken(other.IssueCSRFToken()) {
		t.Fatalf("token from another secret should fail")
	}
}
