package memory

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
)

// UserRepository implements persistence.UserRepository on the memory store
type UserRepository struct {
	store *Store
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user *entity.User
	err := r.store.read(ctx, func(d *dataset) error {
		m, ok := d.users[id]
		if !ok {
			return errs.ErrUserNotFound
		}
		user = m.ToEntity()
		return nil
	})
	return user, err
}

// GetByIDForUpdate retrieves a user; units are serialized so no extra lock is taken
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

// GetByIDs retrieves the users that exist among ids
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	var users []*entity.User
	err := r.store.read(ctx, func(d *dataset) error {
		for _, id := range ids {
			if m, ok := d.users[id]; ok {
				users = append(users, m.ToEntity())
			}
		}
		return nil
	})
	return users, err
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, errs.ErrUserNotFound, func(m *model.User) bool {
		return m.Email != nil && *m.Email == email
	})
}

// GetByRFID retrieves the user a card is bound to
func (r *UserRepository) GetByRFID(ctx context.Context, rfid string) (*entity.User, error) {
	return r.findOne(ctx, errs.ErrCardNotRegistered, func(m *model.User) bool {
		return m.RFIDUID != nil && *m.RFIDUID == rfid
	})
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	m := model.NewUser(user)
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.users[m.ID]; exists {
			return errs.ErrDuplicateUser
		}
		if err := checkUnique(d, m); err != nil {
			return err
		}
		d.users[m.ID] = m
		return nil
	})
}

// Update updates user information
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	m := model.NewUser(user)
	return r.store.write(ctx, func(d *dataset) error {
		if _, exists := d.users[m.ID]; !exists {
			return errs.ErrUserNotFound
		}
		if err := checkUnique(d, m); err != nil {
			return err
		}
		d.users[m.ID] = m
		return nil
	})
}

func (r *UserRepository) findOne(ctx context.Context, notFound error, match func(m *model.User) bool) (*entity.User, error) {
	var user *entity.User
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range d.users {
			if match(m) {
				user = m.ToEntity()
				return nil
			}
		}
		return notFound
	})
	return user, err
}

// checkUnique enforces the unique email, card and wallet number constraints
func checkUnique(d *dataset, candidate *model.User) error {
	for id, m := range d.users {
		if id == candidate.ID {
			continue
		}
		if sameValue(m.Email, candidate.Email) {
			return errs.ErrDuplicateUser
		}
		if sameValue(m.RFIDUID, candidate.RFIDUID) {
			return errs.ErrCardAlreadyRegistered
		}
		if sameValue(m.WalletID, candidate.WalletID) {
			return errs.ErrStoreConflict
		}
	}
	return nil
}

func sameValue(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
