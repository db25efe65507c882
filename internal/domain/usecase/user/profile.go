package user

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// UpdateProfile changes the name and, for students, grade level and section
func (u *UserUseCase) UpdateProfile(ctx context.Context, userID string, req usecase.UpdateProfileRequest) (*entity.User, error) {
	var user *entity.User
	err := u.uow.Execute(ctx, func(ctx context.Context) error {
		userRepo := u.uow.GetUserRepository(ctx)

		var err error
		user, err = userRepo.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			if err := user.Rename(*req.Name, u.timeProvider); err != nil {
				return err
			}
		}

		if req.GradeLevel != nil || req.Section != nil {
			if user.Profile.Student == nil {
				return fmt.Errorf("%w: only students have a grade level", errs.ErrInvalidProfile)
			}
			grade, section := user.Profile.Student.GradeLevel, user.Profile.Student.Section
			if req.GradeLevel != nil {
				grade = trimmed(req.GradeLevel)
			}
			if req.Section != nil {
				section = trimmed(req.Section)
			}
			if err := user.UpdateStudentDetails(grade, section, u.timeProvider); err != nil {
				return err
			}
		}

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		common.LogFailure(u.logger, "Profile update failed", err, map[string]any{
			"user_id": userID,
		})
		return nil, err
	}

	u.logger.Info("Profile updated", map[string]any{
		"user_id": userID,
	})
	return user, nil
}

// LinkStudent links the student registered under studentEmail to a parent
func (u *UserUseCase) LinkStudent(ctx context.Context, parentID, studentEmail string) (*entity.User, error) {
	email := entity.NormalizeEmail(studentEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: student email is required", errs.ErrInvalidRequest)
	}

	var parent *entity.User
	err := u.uow.Execute(ctx, func(ctx context.Context) error {
		userRepo := u.uow.GetUserRepository(ctx)

		var err error
		parent, err = userRepo.GetByIDForUpdate(ctx, parentID)
		if err != nil {
			return err
		}
		student, err := userRepo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if err := parent.LinkStudent(student, u.timeProvider); err != nil {
			return err
		}
		return userRepo.Update(ctx, parent)
	})
	if err != nil {
		common.LogFailure(u.logger, "Linking student failed", err, map[string]any{
			"parent_id":     parentID,
			"student_email": email,
		})
		return nil, err
	}

	u.logger.Info("Student linked", map[string]any{
		"parent_id":     parentID,
		"student_email": email,
	})
	return parent, nil
}
