package models

import "time"

// Category is an administrative lookup entity. It has no owner;
// rows are created by seed data or admin tooling, never by handlers.
type Category struct {
	CategoryID   uint64 `gorm:"primaryKey;autoIncrement"`
	CategoryName string `gorm:"size:100;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}
