package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表。TotalPrice 为建单当下计算的快照金额，后续不再重算
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                      // 主键
	UserID          uint           `gorm:"index;not null" json:"user_id"`                             // 用户ID
	TotalPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`  // 订单总额（快照）
	Status          string         `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态（unpaid/paid）
	StoreID         string         `gorm:"type:varchar(10)" json:"store_id"`                          // 取货门市代号
	StoreName       string         `gorm:"type:varchar(100)" json:"store_name"`                       // 取货门市名称
	CvsType         string         `gorm:"type:varchar(20)" json:"cvs_type"`                          // 超商通路
	MerchantTradeNo string         `gorm:"type:varchar(20);index" json:"merchant_trade_no,omitempty"` // 绿界交易编号
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                      // 支付时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
