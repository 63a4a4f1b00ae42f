package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name        string         `gorm:"type:varchar(200);not null" json:"name"` // 商品名称
	Description string         `gorm:"type:text" json:"description"`           // 商品描述
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"` // 是否上架
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间

	Models []ProductModel `gorm:"foreignKey:ProductID" json:"models,omitempty"` // 商品型号
	Images []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"` // 商品图片
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
