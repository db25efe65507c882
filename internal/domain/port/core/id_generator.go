package core

// IDGenerator produces unique identifiers for new records
type IDGenerator interface {
	NewID() string
}
