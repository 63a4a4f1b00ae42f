package models

import (
	"time"
)

// ProductImage 商品图片，sort_order 最小者作为列表主图
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	ProductID uint      `gorm:"index;not null" json:"product_id"` // 商品ID
	URL       string    `gorm:"type:varchar(500);not null" json:"url"` // 图片地址
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`  // 排序
	CreatedAt time.Time `json:"created_at"`                       // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
