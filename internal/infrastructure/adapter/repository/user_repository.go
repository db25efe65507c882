package repository

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, fields map[string]any, notFound error) error {
	mapped := r.errorClassifier.ToDomain(err, notFound, r.duplicateError(err))
	if errs.IsStoreUnavailableError(mapped) {
		fields["error"] = err.Error()
		r.logger.Error("Database error when "+operation, fields)
	}
	return mapped
}

// duplicateError tells which unique index a violation hit
func (r *UserRepository) duplicateError(err error) error {
	if !r.errorClassifier.IsDuplicateKeyError(err) {
		return nil
	}
	switch msg := err.Error(); {
	case strings.Contains(msg, "rfid_uid"):
		return errs.ErrCardAlreadyRegistered
	case strings.Contains(msg, "wallet_id"):
		return errs.ErrStoreConflict
	default:
		return errs.ErrDuplicateUser
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, r.handleDatabaseError("getting user", err, map[string]any{"user_id": id}, errs.ErrUserNotFound)
	}
	return userModel.ToEntity(), nil
}

// GetByIDForUpdate retrieves a user with a row lock held until the unit ends
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.User
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, r.handleDatabaseError("locking user", err, map[string]any{"user_id": id}, errs.ErrUserNotFound)
	}
	return userModel.ToEntity(), nil
}

// GetByIDs retrieves the users that exist among ids
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}
	var userModels []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&userModels).Error; err != nil {
		return nil, r.handleDatabaseError("listing users", err, map[string]any{"user_ids": ids}, nil)
	}
	users := make([]*entity.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, userModels[i].ToEntity())
	}
	return users, nil
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		return nil, r.handleDatabaseError("finding user by email", err, map[string]any{"email": email}, errs.ErrUserNotFound)
	}
	return userModel.ToEntity(), nil
}

// GetByRFID retrieves the user a card is bound to
func (r *UserRepository) GetByRFID(ctx context.Context, rfid string) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).Where("rfid_uid = ?", rfid).First(&userModel).Error; err != nil {
		return nil, r.handleDatabaseError("finding card holder", err, map[string]any{"rfid": rfid}, errs.ErrCardNotRegistered)
	}
	return userModel.ToEntity(), nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := model.NewUser(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return r.handleDatabaseError("creating user", err, map[string]any{"user_id": user.ID}, nil)
	}

	r.logger.Debug("User created", map[string]any{
		"user_id":   user.ID,
		"wallet_id": user.WalletID,
	})
	return nil
}

// userColumns are the columns Update writes
var userColumns = []string{
	"name", "email", "grade_level", "section", "linked_student_ids", "rfid_uid", "wallet_id", "balance", "updated_at",
}

// Update writes every mutable column of the user, balance included
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	userModel := model.NewUser(user)
	result := r.db.WithContext(ctx).Model(userModel).Select(userColumns).Updates(userModel)

	if result.Error != nil {
		return r.handleDatabaseError("updating user", result.Error, map[string]any{"user_id": user.ID}, nil)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during update", map[string]any{
			"user_id": user.ID,
		})
		return errs.ErrUserNotFound
	}
	return nil
}
