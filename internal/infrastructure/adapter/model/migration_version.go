package model

import "time"

// MigrationVersion is one applied schema version. Rows are append-only;
// the newest AppliedAt is the schema the ledger tables currently match.
type MigrationVersion struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Version     string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	AppliedAt   time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for the migration version model
func (MigrationVersion) TableName() string {
	return "schema_migrations"
}
