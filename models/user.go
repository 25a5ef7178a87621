package models

import (
	"time"
)

const UserTable = "lnf_users"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone string `gorm:"uniqueIndex;size:32;not null" json:"phone"`

	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"size:20;not null;default:'user'" json:"role"`
	AvatarURL    string `json:"avatarUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return UserTable
}
