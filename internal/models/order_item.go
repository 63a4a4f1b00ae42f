package models

import (
	"time"
)

// OrderItem 订单项，名称与单价均为建单当下的快照，与商品目录脱钩
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                            // 订单ID
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"`            // 商品名称（快照）
	ModelName   string    `gorm:"type:varchar(100);not null" json:"model_name"`              // 型号名称（快照）
	Quantity    int       `gorm:"not null" json:"quantity"`                                  // 数量
	ModelPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"model_price"`  // 单价（快照）
	CreatedAt   time.Time `json:"created_at"`                                                // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
