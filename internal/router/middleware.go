package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/mall-next/internal/config"
	"github.com/mall-next/internal/constants"
	"github.com/mall-next/internal/http/response"
	"github.com/mall-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(constants.HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Writer.Header().Set(constants.HeaderRequestID, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(constants.ContextKeyRequestID)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// SessionAuthMiddleware 会话鉴权中间件：从 HttpOnly cookie 读取 JWT 并校验
func SessionAuthMiddleware(jwtCfg config.JWTConfig, authService *service.AuthService) gin.HandlerFunc {
	cookieName := strings.TrimSpace(jwtCfg.CookieName)
	if cookieName == "" {
		cookieName = "token"
	}
	return func(c *gin.Context) {
		if authService == nil || jwtCfg.SecretKey == "" {
			response.Unauthorized(c, "会话服务未配置")
			c.Abort()
			return
		}
		tokenString, err := c.Cookie(cookieName)
		if err != nil || strings.TrimSpace(tokenString) == "" {
			response.Unauthorized(c, "未登录或登录已过期")
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "登录凭证无效")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyAuthority, claims.Authority)
		c.Next()
	}
}

// AdminRequiredMiddleware 管理端角色校验，需在会话鉴权之后使用
func AdminRequiredMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(constants.ContextKeyAuthority)
		if !ok {
			response.Unauthorized(c, "未登录或登录已过期")
			c.Abort()
			return
		}
		authority, _ := value.(string)
		if authority != constants.AuthorityAdmin {
			response.Forbidden(c, "无管理权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFMiddleware CSRF 双重提交校验中间件。
// 写操作必须携带请求头令牌，且签名校验通过并与 cookie 一致
func CSRFMiddleware(csrfCfg config.CSRFConfig, authService *service.AuthService) gin.HandlerFunc {
	headerName := strings.TrimSpace(csrfCfg.HeaderName)
	if headerName == "" {
		headerName = "X-CSRF-Token"
	}
	cookieName := strings.TrimSpace(csrfCfg.CookieName)
	if cookieName == "" {
		cookieName = "csrf_token"
	}
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
			return
		}

		if authService == nil {
			response.Forbidden(c, "CSRF 校验服务未配置")
			c.Abort()
			return
		}
		headerToken := strings.TrimSpace(c.GetHeader(headerName))
		if headerToken == "" || !authService.VerifyCSRFToken(headerToken) {
			response.Forbidden(c, "CSRF 校验失败")
			c.Abort()
			return
		}
		cookieToken, err := c.Cookie(cookieName)
		if err != nil || strings.TrimSpace(cookieToken) != headerToken {
			response.Forbidden(c, "CSRF 校验失败")
			c.Abort()
			return
		}
		c.Next()
	}
}
