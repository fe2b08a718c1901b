package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record behind every authenticated principal.
// Orders and the phone number hang off it with cascading deletes so
// removing a user removes everything the user owns in one pass.
type User struct {
	ID           string `gorm:"type:char(36);primaryKey"`
	Username     string `gorm:"size:150;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	Profile      JSON   `gorm:"type:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Orders       []Order      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	NumberPhone  *NumberPhone `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
