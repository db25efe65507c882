package persistence

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// UserRepository defines essential methods to interact with user data
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrStoreUnavailable: If the store cannot be reached
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the unit ends.
	// Every balance change reads the user through this method.
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrStoreConflict: If the row lock could not be taken
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)

	// GetByIDs retrieves the users that exist among ids, in no particular order
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)

	// GetByEmail retrieves a user by normalized email
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has the email
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByRFID retrieves the user a card is bound to
	//
	// Possible errors:
	// - ErrCardNotRegistered: If no user holds the card
	GetByRFID(ctx context.Context, rfid string) (*entity.User, error)

	// Create creates a new user
	//
	// Possible errors:
	// - ErrDuplicateUser: If a user with the same ID or email already exists
	// - ErrCardAlreadyRegistered: If the card is bound to another user
	Create(ctx context.Context, user *entity.User) error

	// Update updates user information, balance included
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrCardAlreadyRegistered: If the card is bound to another user
	Update(ctx context.Context, user *entity.User) error
}
