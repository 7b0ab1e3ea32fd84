package model

import "gorm.io/gorm"

// User 管理员账号 (用于后台登录认证)
type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;not null"` // 用户名唯一且不为空
	Password string `json:"-" gorm:"not null"`                    // 加密后的密码
	Email    string `json:"email"`
}
