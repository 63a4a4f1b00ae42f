package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mall-next/internal/config"
	"github.com/mall-next/internal/logger"
	"github.com/mall-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionClaims 会话 JWT 声明
type SessionClaims struct {
	UserID    uint   `json:"user_id"`
	Authority string `json:"authority"`
	jwt.RegisteredClaims
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult 登录结果：JWT 写入 HttpOnly cookie，CSRF 令牌写入可读 cookie
type LoginResult struct {
	Token       string
	CSRFToken   string
	ExpireHours int
	UserID      uint
	Email       string
	Name        string
	Authority   string
}

// AuthService 用户认证服务
type AuthService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	csrfCfg  config.CSRFConfig
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, csrfCfg config.CSRFConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		csrfCfg:  csrfCfg,
	}
}

// Login 校验邮箱密码并签发会话令牌与 CSRF 令牌
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// 统一返回凭证错误，避免暴露账号是否存在
		return nil, ErrEmailOrPasswordIncorrect
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrEmailOrPasswordIncorrect
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.generateToken(user.ID, user.Authority)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.TouchLastLogin(user.ID, time.Now()); err != nil {
		logger.Warnw("touch_last_login_failed", "user_id", user.ID, "error", err)
	}

	return &LoginResult{
		Token:       token,
		CSRFToken:   s.IssueCSRFToken(),
		ExpireHours: s.expireHours(),
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Authority:   user.Authority,
	}, nil
}

// ParseToken 解析并校验会话 JWT
func (s *AuthService) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("无效的 token")
	}
	return claims, nil
}

// IssueCSRFToken 签发 token.signature 形式的 CSRF 令牌
func (s *AuthService) IssueCSRFToken() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s.%s", token, s.signCSRF(token))
}

// VerifyCSRFToken 校验 CSRF 令牌签名
func (s *AuthService) VerifyCSRFToken(value string) bool {
	value = strings.TrimSpace(value)
	token, signature, found := strings.Cut(value, ".")
	if !found || token == "" || signature == "" {
		return false
	}
	expected := s.signCSRF(token)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *AuthService) signCSRF(token string) string {
	mac := hmac.New(sha256.New, []byte(s.csrfCfg.SecretKey))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *AuthService) generateToken(userID uint, authority string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:    userID,
		Authority: authority,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expireHours()) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func (s *AuthService) expireHours() int {
	if s.jwtCfg.ExpireHours > 0 {
		return s.jwtCfg.ExpireHours
	}
	return 24
}
