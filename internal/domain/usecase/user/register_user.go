package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// RegisterUser creates a user with a zero balance. The wallet number is drawn from the
// shared counter in the same unit that creates the user, so concurrent registrations
// never share a number.
func (u *UserUseCase) RegisterUser(ctx context.Context, req usecase.RegisterUserRequest) (*entity.User, error) {
	profile, err := buildProfile(req)
	if err != nil {
		return nil, err
	}

	u.logger.Debug("Registering user", map[string]any{
		"role":  string(profile.Role),
		"email": req.Email,
	})

	var user *entity.User
	err = u.uow.Execute(ctx, func(ctx context.Context) error {
		userRepo := u.uow.GetUserRepository(ctx)

		if email := entity.NormalizeEmail(req.Email); email != "" {
			_, err := userRepo.GetByEmail(ctx, email)
			if err == nil {
				return fmt.Errorf("%w: email %s is taken", errs.ErrDuplicateUser, email)
			}
			if !errors.Is(err, errs.ErrUserNotFound) {
				return err
			}
		}

		if profile.Parent != nil {
			if err := u.checkStudents(ctx, profile.Parent.LinkedStudentIDs); err != nil {
				return err
			}
		}

		var err error
		user, err = entity.NewUser(u.idGen.NewID(), req.Name, req.Email, profile, u.timeProvider)
		if err != nil {
			return err
		}
		if err := u.assignWalletID(ctx, user); err != nil {
			return err
		}
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		common.LogFailure(u.logger, "User registration failed", err, map[string]any{
			"role":  string(profile.Role),
			"email": req.Email,
		})
		return nil, err
	}

	u.logger.Info("User registered", map[string]any{
		"user_id":   user.ID,
		"role":      string(user.Role()),
		"wallet_id": user.WalletID,
	})
	return user, nil
}

// checkStudents verifies that every id names an existing student
func (u *UserUseCase) checkStudents(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	students, err := u.uow.GetUserRepository(ctx).GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[string]*entity.User, len(students))
	for _, s := range students {
		found[s.ID] = s
	}
	for _, id := range ids {
		s, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: linked student %s", errs.ErrUserNotFound, id)
		}
		if s.Role() != entity.RoleStudent {
			return fmt.Errorf("%w: linked user %s is not a student", errs.ErrInvalidProfile, id)
		}
	}
	return nil
}

func buildProfile(req usecase.RegisterUserRequest) (entity.Profile, error) {
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		return entity.Profile{}, err
	}
	switch role {
	case entity.RoleStudent:
		return entity.NewStudentProfile(req.GradeLevel, req.Section)
	case entity.RoleParent:
		return entity.NewParentProfile(req.LinkedStudentIDs), nil
	default:
		return entity.NewBasicProfile(role)
	}
}
