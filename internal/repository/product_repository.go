package repository

import (
	"errors"

	"github.com/mall-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetModel(modelID uint) (*models.ProductModel, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	DeleteByIDs(ids []uint) error
	List(filter ProductListFilter) ([]models.Product, int64, error)
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID 根据 ID 获取商品（含型号与图片）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	query := r.db.
		Preload("Models", func(db *gorm.DB) *gorm.DB { return db.Order("product_models.id asc") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("product_images.sort_order asc, product_images.id asc") })
	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetModel 根据 ID 获取商品型号
func (r *GormProductRepository) GetModel(modelID uint) (*models.ProductModel, error) {
	var model models.ProductModel
	if err := r.db.First(&model, modelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &model, nil
}

// Create 创建商品（级联写入型号与图片）
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 整体更新商品，型号与图片先删后写，保证与输入完全一致
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Models", "Images").Save(product).Error; err != nil {
			return err
		}
		if len(product.Models) > 0 {
			if err := tx.Create(&product.Models).Error; err != nil {
				return err
			}
		}
		if len(product.Images) > 0 {
			if err := tx.Create(&product.Images).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteByIDs 批量删除商品
func (r *GormProductRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id IN ?", ids).Delete(&models.ProductModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id IN ?", ids).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Product{}).Error
	})
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var products []models.Product
	if err := query.
		Preload("Models", func(db *gorm.DB) *gorm.DB { return db.Order("product_models.id asc") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("product_images.sort_order asc, product_images.id asc") }).
		Order("id desc").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
