package idgen

import (
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/google/uuid"
)

// UUIDGenerator hands out random (version 4) UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUID generator
func NewUUIDGenerator() core.IDGenerator {
	return UUIDGenerator{}
}

// NewID returns a new UUID string
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
