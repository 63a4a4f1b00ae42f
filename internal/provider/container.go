package provider

import (
	"github.com/mall-next/internal/cache"
	"github.com/mall-next/internal/config"
	"github.com/mall-next/internal/ecpay"
	"github.com/mall-next/internal/logger"
	"github.com/mall-next/internal/models"
	"github.com/mall-next/internal/queue"
	"github.com/mall-next/internal/repository"
	"github.com/mall-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository

	// Services
	AuthService      *service.AuthService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
	PaymentService   *service.PaymentService
	LogisticsService *service.LogisticsService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.UserRepo, c.Config.JWT, c.Config.CSRF)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo)

	paymentCfg := &ecpay.PaymentConfig{
		MerchantID:    c.Config.ECPay.Payment.MerchantID,
		HashKey:       c.Config.ECPay.Payment.HashKey,
		HashIV:        c.Config.ECPay.Payment.HashIV,
		GatewayURL:    c.Config.ECPay.Payment.GatewayURL,
		ReturnURL:     c.Config.ECPay.Payment.ReturnURL,
		ClientBackURL: c.Config.ECPay.Payment.ClientBackURL,
	}
	if err := ecpay.ValidatePaymentConfig(paymentCfg); err != nil {
		logger.Warnw("provider_ecpay_payment_config_incomplete", "error", err)
	}
	c.PaymentService = service.NewPaymentService(c.OrderRepo, paymentCfg, c.QueueClient)

	logisticsCfg := &ecpay.LogisticsConfig{
		MerchantID:   c.Config.ECPay.Logistics.MerchantID,
		HashKey:      c.Config.ECPay.Logistics.HashKey,
		HashIV:       c.Config.ECPay.Logistics.HashIV,
		StoreListURL: c.Config.ECPay.Logistics.StoreListURL,
	}
	logisticsClient, err := ecpay.NewLogisticsClient(logisticsCfg)
	if err != nil {
		logger.Warnw("provider_ecpay_logistics_config_incomplete", "error", err)
	}
	c.LogisticsService = service.NewLogisticsService(c.CartRepo, logisticsClient)
}
