package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号。账号已存在或密码为空时跳过
func InitDefaultAdmin(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		return nil
	}

	var count int64
	if err := DB.Model(&User{}).Where("authority = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "管理员",
		Authority:    "admin",
		IsActive:     true,
	}
	return DB.Create(&admin).Error
}
