package router

import (
	"fmt"
	"strings"

	"github.com/mall-next/internal/cache"
	"github.com/mall-next/internal/config"
	adminhandlers "github.com/mall-next/internal/http/handlers/admin"
	publichandlers "github.com/mall-next/internal/http/handlers/public"
	"github.com/mall-next/internal/logger"
	"github.com/mall-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mall"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁",
	}

	sessionAuth := SessionAuthMiddleware(cfg.JWT, c.AuthService)
	csrfGuard := CSRFMiddleware(cfg.CSRF, c.AuthService)
	adminRequired := AdminRequiredMiddleware()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/logistics/cvs-options", publicHandler.GetCvsOptions)
			public.GET("/logistics/stores", publicHandler.GetStoreList)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.POST("/logout", publicHandler.UserLogout)
		}

		// 用户接口（需会话鉴权，写操作需 CSRF 令牌）
		user := apiV1.Group("")
		user.Use(sessionAuth, csrfGuard)
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)
			user.PUT("/cart/store", publicHandler.SaveStoreSelection)
			user.POST("/logistics/map-sign", publicHandler.SignStoreMap)
			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListMyOrders)
			user.GET("/orders/:id", publicHandler.GetMyOrder)
			user.POST("/payments/checkout", publicHandler.CreateCheckout)
		}

		// 绿界回调接口：由支付网关服务器调用，不经会话与 CSRF 校验
		apiV1.POST("/payments/callback", publicHandler.PaymentCallback)
		apiV1.POST("/payments/client-return", publicHandler.PaymentClientReturn)
		apiV1.GET("/payments/client-return", publicHandler.PaymentClientReturn)

		// 管理员接口
		admin := apiV1.Group("/admin")
		admin.Use(sessionAuth, adminRequired, csrfGuard)
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PATCH("/orders/:id", adminHandler.UpdateOrderStatus)

			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products", adminHandler.DeleteProducts)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
