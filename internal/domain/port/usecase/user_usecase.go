package usecase

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// RegisterUserRequest represents a new account
type RegisterUserRequest struct {
	Name             string
	Email            string
	Role             string
	GradeLevel       string   // students only
	Section          string   // students only
	LinkedStudentIDs []string // parents only
}

// UpdateProfileRequest carries the profile fields to change; nil fields are kept
type UpdateProfileRequest struct {
	Name       *string
	GradeLevel *string
	Section    *string
}

// UserUseCase defines methods for user-related business operations
type UserUseCase interface {
	// RegisterUser creates the user with a zero balance and a sequential wallet ID
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*entity.User, error)

	// GetUser returns one user
	GetUser(ctx context.Context, userID string) (*entity.User, error)

	// GetUsers returns the users that exist among userIDs
	GetUsers(ctx context.Context, userIDs []string) ([]*entity.User, error)

	// GetLinkedStudents returns the students linked to a parent
	GetLinkedStudents(ctx context.Context, parentID string) ([]*entity.User, error)

	// FindUserByEmail looks a user up by email
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateProfile changes name, grade or section
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*entity.User, error)

	// LinkStudent links the student with studentEmail to a parent
	LinkStudent(ctx context.Context, parentID, studentEmail string) (*entity.User, error)

	// RegisterCard binds a card to the user with email, assigning a wallet ID if the user has none
	RegisterCard(ctx context.Context, email, rfid string) (*entity.User, error)
}
