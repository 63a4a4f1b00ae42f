package models

import (
	"time"
)

// CartItem 购物车项。同一商品型号允许重复加入，各为独立行，不做合并
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`           // 主键
	CartID    uint      `gorm:"index;not null" json:"cart_id"`  // 购物车ID
	ProductID uint      `gorm:"index;not null" json:"product_id"` // 商品ID
	ModelID   uint      `gorm:"index;not null" json:"model_id"` // 商品型号ID
	Quantity  int       `gorm:"not null" json:"quantity"`       // 数量
	CreatedAt time.Time `gorm:"index" json:"created_at"`        // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`        // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
