package repository

import (
	"errors"

	"github.com/mall-next/internal/models"

	"gorm.io/gorm"
)

// CartItemDetail 购物车项明细行：实时联结商品目录，价格与名称均为当前值
type CartItemDetail struct {
	CartItemID      uint         `json:"cart_item_id"`
	ProductID       uint         `json:"product_id"`
	ProductName     string       `json:"product_name"`
	ProductIsActive bool         `json:"product_is_active"`
	ModelID         uint         `json:"model_id"`
	ModelName       string       `json:"model_name"`
	ModelPrice      models.Money `json:"model_price"`
	Quantity        int          `json:"quantity"`
	ImageURL        string       `json:"image_url"`
}

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetByID(id uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	ListItemDetails(cartID uint) ([]CartItemDetail, error)
	AddItem(item *models.CartItem) error
	GetItem(cartID, itemID uint) (*models.CartItem, error)
	DeleteItem(cartID, itemID uint) error
	UpdateStoreSelection(cartID uint, storeID, storeName, cvsType string) error
	DeleteCartWithItems(cartID uint) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUser 获取用户购物车
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByID 根据 ID 获取购物车
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.First(&cart, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车。user_id 唯一索引兜底并发下的重复创建
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// ListItemDetails 获取购物车项明细，实时联结型号价格、商品名称与排序最前的图片
func (r *GormCartRepository) ListItemDetails(cartID uint) ([]CartItemDetail, error) {
	var rows []CartItemDetail
	err := r.db.Table("cart_items").
		Select(`cart_items.id AS cart_item_id,
			products.id AS product_id,
			products.name AS product_name,
			products.is_active AS product_is_active,
			product_models.id AS model_id,
			product_models.name AS model_name,
			product_models.price AS model_price,
			cart_items.quantity AS quantity,
			(SELECT url FROM product_images
				WHERE product_images.product_id = products.id
				ORDER BY product_images.sort_order ASC, product_images.id ASC
				LIMIT 1) AS image_url`).
		Joins("JOIN product_models ON product_models.id = cart_items.model_id AND product_models.deleted_at IS NULL").
		Joins("JOIN products ON products.id = cart_items.product_id AND products.deleted_at IS NULL").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AddItem 添加购物车项。相同商品型号不合并，重复加入即新增行
func (r *GormCartRepository) AddItem(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Create(item).Error
}

// GetItem 获取指定购物车中的购物车项
func (r *GormCartRepository) GetItem(cartID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(cartID, itemID uint) error {
	return r.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{}).Error
}

// UpdateStoreSelection 写入取货门市选择
func (r *GormCartRepository) UpdateStoreSelection(cartID uint, storeID, storeName, cvsType string) error {
	updates := map[string]interface{}{
		"store_id":   storeID,
		"store_name": storeName,
		"cvs_type":   cvsType,
	}
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(updates).Error
}

// DeleteCartWithItems 删除购物车及其全部购物车项，须在事务内调用
func (r *GormCartRepository) DeleteCartWithItems(cartID uint) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.Where("id = ?", cartID).Delete(&models.Cart{}).Error
}
