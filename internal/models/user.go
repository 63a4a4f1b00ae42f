package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                             // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                                // 密码哈希（不返回给前端）
	Name         string         `gorm:"default:''" json:"name"`                           // 姓名
	Authority    string         `gorm:"type:varchar(20);not null;default:'customer'" json:"authority"` // 角色（customer/admin）
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`           // 是否启用
	LastLoginAt  *time.Time     `json:"last_login_at"`                                    // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                          // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否后台管理角色
func (u *User) IsAdmin() bool {
	return u != nil && u.Authority == "admin"
}
