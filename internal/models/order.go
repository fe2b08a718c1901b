package models

import "time"

// Order ties a requesting user to a category. Many orders may share a
// category and many may share an owner; both references are mandatory.
type Order struct {
	OrderID    uint64   `gorm:"primaryKey;autoIncrement"`
	UserID     string   `gorm:"type:char(36);not null;index"`
	CategoryID uint64   `gorm:"not null"`
	Category   Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt  time.Time
}

// TableName overrides the table name for Order
func (Order) TableName() string {
	return "orders"
}
