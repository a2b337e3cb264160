package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // account permission level

const (
	RoleUser  UserRole = "user"  // regular customer
	RoleAdmin UserRole = "admin" // catalog and order administrator
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // user ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // login email
	PasswordHash string         `gorm:"not null" json:"-"`                           // bcrypt password hash
	Name         string         `gorm:"not null" json:"name"`                        // display name
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // permission level
	CreatedAt    time.Time      `json:"created_at"`                                  // creation time
	UpdatedAt    time.Time      `json:"updated_at"`                                  // last update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // soft delete time

	Preference *Preference `gorm:"foreignKey:UserID" json:"preference,omitempty"` // scent preference profile
	Cart       *Cart       `gorm:"foreignKey:UserID" json:"cart,omitempty"`       // shopping cart
}

func (User) TableName() string {
	return "users"
}
