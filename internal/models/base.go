package models

import "time"

// Base carries the store-assigned identity and timestamps shared by all tables.
// IDs come from a serial column and are never reused.
type Base struct {
	ID        int64     `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}
