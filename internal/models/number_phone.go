package models

import "time"

// NumberPhone holds the single phone number a user may register.
// The unique index on UserID is the storage-level enforcement of the
// one-per-user rule; creation must be a plain insert so a second
// attempt fails on the constraint instead of overwriting.
type NumberPhone struct {
	NumberPhoneID uint64 `gorm:"primaryKey;autoIncrement"`
	UserID        string `gorm:"type:char(36);not null;uniqueIndex"`
	Number        string `gorm:"size:9;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the table name for NumberPhone
func (NumberPhone) TableName() string {
	return "number_phones"
}
