package main

import (
	"fmt"

	"github.com/mall-next/internal/config"
	"github.com/mall-next/internal/logger"
	"github.com/mall-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加演示账号
	demoUsers := []struct {
		Email     string
		Password  string
		Name      string
		Authority string
	}{
		{Email: "admin@example.com", Password: "admin123456", Name: "管理员", Authority: "admin"},
		{Email: "alice@example.com", Password: "alice123456", Name: "Alice", Authority: "customer"},
		{Email: "bob@example.com", Password: "bob123456", Name: "Bob", Authority: "customer"},
	}

	for _, du := range demoUsers {
		var existing models.User
		if err := models.DB.Where("email = ?", du.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", du.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(du.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", du.Email, err)
			continue
		}
		user := models.User{
			Email:        du.Email,
			PasswordHash: string(hash),
			Name:         du.Name,
			Authority:    du.Authority,
			IsActive:     true,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", du.Email, err)
		} else {
			stdLog.Printf("Created user: %s (%s)", du.Email, du.Authority)
		}
	}

	// 添加商品（含型号与图片）
	type modelSeed struct {
		Name  string
		Price string
		Stock int
	}
	type imageSeed struct {
		URL       string
		SortOrder int
	}
	type productSeed struct {
		Name        string
		Description string
		IsActive    bool
		Models      []modelSeed
		Images      []imageSeed
	}

	products := []productSeed{
		{
			Name:        "无线蓝牙耳机",
			Description: "高品质音质，长续航，舒适佩戴。",
			IsActive:    true,
			Models: []modelSeed{
				{Name: "标准版", Price: "990", Stock: 50},
				{Name: "降噪版", Price: "1490", Stock: 30},
			},
			Images: []imageSeed{
				{URL: "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800", SortOrder: 0},
				{URL: "https://images.unsplash.com/photo-1484704849700-f032a568e944?w=800", SortOrder: 10},
			},
		},
		{
			Name:        "智能手表",
			Description: "健康监测，运动追踪，消息提醒。",
			IsActive:    true,
			Models: []modelSeed{
				{Name: "41mm", Price: "4990", Stock: 20},
				{Name: "45mm", Price: "5490", Stock: 15},
			},
			Images: []imageSeed{
				{URL: "https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800", SortOrder: 0},
			},
		},
		{
			Name:        "便携充电宝",
			Description: "大容量，快速充电，多设备兼容。",
			IsActive:    true,
			Models: []modelSeed{
				{Name: "10000mAh", Price: "690", Stock: 100},
				{Name: "20000mAh", Price: "990", Stock: 60},
			},
			Images: []imageSeed{
				{URL: "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800", SortOrder: 0},
			},
		},
		{
			Name:        "多功能背包",
			Description: "大容量，防水防盗，USB 充电接口。",
			IsActive:    true,
			Models: []modelSeed{
				{Name: "经典黑", Price: "1290", Stock: 40},
			},
			Images: []imageSeed{
				{URL: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800", SortOrder: 0},
			},
		},
		{
			Name:        "演示商品-已下架",
			Description: "用于前台上架状态展示，不应出现在公开列表。",
			IsActive:    false,
			Models: []modelSeed{
				{Name: "默认", Price: "100", Stock: 5},
			},
		},
	}

	for _, seed := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", seed.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", seed.Name)
			continue
		}

		product := models.Product{
			Name:        seed.Name,
			Description: seed.Description,
			IsActive:    seed.IsActive,
		}
		for _, ms := range seed.Models {
			price, err := decimal.NewFromString(ms.Price)
			if err != nil {
				stdLog.Printf("Skip model %s of %s: bad price %q", ms.Name, seed.Name, ms.Price)
				continue
			}
			product.Models = append(product.Models, models.ProductModel{
				Name:     ms.Name,
				Price:    models.NewMoneyFromDecimal(price),
				Stock:    ms.Stock,
				IsActive: true,
			})
		}
		for _, img := range seed.Images {
			product.Images = append(product.Images, models.ProductImage{
				URL:       img.URL,
				SortOrder: img.SortOrder,
			})
		}

		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", seed.Name, err)
		} else {
			stdLog.Printf("Created product: %s (%d models, %d images)", seed.Name, len(product.Models), len(product.Images))
		}
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Users (1 admin + 2 customers)")
	fmt.Println("- 5 Products with models and images")
}
