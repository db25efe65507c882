package model

import "time"

// Counter is a named sequence, one row per sequence
type Counter struct {
	Name      string    `gorm:"primaryKey;size:50" json:"name"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for Counter
func (Counter) TableName() string {
	return "counters"
}
