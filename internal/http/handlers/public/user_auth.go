package public

import (
	"errors"
	"net/http"

	"github.com/mall-next/internal/http/response"
	"github.com/mall-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserLogin 用户登录：会话 JWT 写入 HttpOnly cookie，CSRF 令牌写入前端可读 cookie
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	result, err := h.AuthService.Login(service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, service.ErrInvalidInput.Error(), nil)
		case errors.Is(err, service.ErrEmailOrPasswordIncorrect):
			respondError(c, response.CodeUnauthorized, service.ErrEmailOrPasswordIncorrect.Error(), nil)
		case errors.Is(err, service.ErrAccountDisabled):
			respondError(c, response.CodeUnauthorized, service.ErrAccountDisabled.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "登录失败", err)
		}
		return
	}

	maxAge := result.ExpireHours * 3600
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Config.JWT.CookieName, result.Token, maxAge, "/", "", h.Config.JWT.CookieSecure, true)
	// CSRF cookie 需被前端脚本读取后经请求头回传，不设置 HttpOnly
	c.SetCookie(h.Config.CSRF.CookieName, result.CSRFToken, maxAge, "/", "", h.Config.JWT.CookieSecure, false)

	response.Success(c, gin.H{
		"user": gin.H{
			"id":        result.UserID,
			"email":     result.Email,
			"name":      result.Name,
			"authority": result.Authority,
		},
		"csrf_token": result.CSRFToken,
	})
}

// UserLogout 用户登出，清除会话与 CSRF cookie
func (h *Handler) UserLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Config.JWT.CookieName, "", -1, "/", "", h.Config.JWT.CookieSecure, true)
	c.SetCookie(h.Config.CSRF.CookieName, "", -1, "/", "", h.Config.JWT.CookieSecure, false)
	response.Success(c, gin.H{"logout": true})
}

// GetCurrentUser 获取当前登录用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "用户信息获取失败", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "用户不存在", nil)
		return
	}

	response.Success(c, gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"authority":     user.Authority,
		"last_login_at": user.LastLoginAt,
	})
}
