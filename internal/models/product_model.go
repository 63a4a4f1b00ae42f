package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductModel 商品型号（规格），价格以型号为准
type ProductModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                // 主键
	ProductID uint           `gorm:"index;not null" json:"product_id"`                    // 商品ID
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`              // 型号名称
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 现价
	Stock     int            `gorm:"not null;default:0" json:"stock"`                     // 库存
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`              // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "product_models"
}
