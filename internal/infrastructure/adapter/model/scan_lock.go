package model

import (
	"time"
)

// ScanLock represents a named lock held by one kiosk while it processes a scan
type ScanLock struct {
	LockKey   string    `gorm:"primaryKey;size:128;not null"`
	Owner     string    `gorm:"size:64;not null"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"` // Standard GORM timestamp
	UpdatedAt time.Time `gorm:"not null"` // Standard GORM timestamp
}

// TableName specifies the table name for ScanLock
func (ScanLock) TableName() string {
	return "scan_locks"
}
