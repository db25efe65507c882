package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
)

// UserUseCase handles user-related business logic
type UserUseCase struct {
	uow          persistence.UnitOfWork
	idGen        coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	uow persistence.UnitOfWork,
	idGen coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *UserUseCase {
	return &UserUseCase{
		uow:          uow,
		idGen:        idGen,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

var _ usecase.UserUseCase = (*UserUseCase)(nil)

// GetUser returns one user
func (u *UserUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, errs.ErrInvalidUserID
	}
	return u.uow.GetUserRepository(ctx).GetByID(ctx, userID)
}

// GetUsers returns the users that exist among userIDs
func (u *UserUseCase) GetUsers(ctx context.Context, userIDs []string) ([]*entity.User, error) {
	if len(userIDs) == 0 {
		return []*entity.User{}, nil
	}
	return u.uow.GetUserRepository(ctx).GetByIDs(ctx, userIDs)
}

// GetLinkedStudents returns the students linked to a parent
func (u *UserUseCase) GetLinkedStudents(ctx context.Context, parentID string) ([]*entity.User, error) {
	parent, err := u.GetUser(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.Role() != entity.RoleParent {
		return nil, fmt.Errorf("%w: user %s is not a parent", errs.ErrInvalidProfile, parentID)
	}
	return u.GetUsers(ctx, parent.Profile.Parent.LinkedStudentIDs)
}

// FindUserByEmail looks a user up by email
func (u *UserUseCase) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", errs.ErrInvalidRequest)
	}
	return u.uow.GetUserRepository(ctx).GetByEmail(ctx, email)
}

// assignWalletID gives user the next sequential wallet number, in the caller's unit
func (u *UserUseCase) assignWalletID(ctx context.Context, user *entity.User) error {
	if user.WalletID != "" {
		return nil
	}
	n, err := u.uow.GetCounterRepository(ctx).Next(ctx, entity.WalletCounter)
	if err != nil {
		return err
	}
	user.AssignWalletID(entity.FormatWalletID(n), u.timeProvider)
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
