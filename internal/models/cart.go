package models

import (
	"time"
)

// Cart 购物车表，每位用户同一时间仅存在一个有效购物车，下单成功后整体删除
type Cart struct {
	ID              uint      `gorm:"primarykey" json:"id"`                           // 主键
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`            // 用户ID
	StoreID         string    `gorm:"type:varchar(10)" json:"store_id"`               // 取货门市代号
	StoreName       string    `gorm:"type:varchar(100)" json:"store_name"`            // 取货门市名称
	CvsType         string    `gorm:"type:varchar(20)" json:"cvs_type"`               // 超商通路
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt       time.Time `gorm:"index" json:"updated_at"`                        // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
