package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/usecase/common"
)

// RegisterCard binds a card to the user registered under email. The card identifier is
// stored as the RFID only; a user without a wallet number gets the next sequential one.
// A card bound to a different user is rejected with ErrCardAlreadyRegistered.
func (u *UserUseCase) RegisterCard(ctx context.Context, email, rfid string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	rfid = strings.TrimSpace(rfid)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", errs.ErrInvalidRequest)
	}
	if rfid == "" {
		return nil, errs.ErrInvalidCard
	}

	var user *entity.User
	err := u.uow.Execute(ctx, func(ctx context.Context) error {
		userRepo := u.uow.GetUserRepository(ctx)

		var err error
		user, err = userRepo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}

		holder, err := userRepo.GetByRFID(ctx, rfid)
		switch {
		case err == nil && holder.ID != user.ID:
			return fmt.Errorf("%w: card %s", errs.ErrCardAlreadyRegistered, rfid)
		case err != nil && !errors.Is(err, errs.ErrCardNotRegistered):
			return err
		}

		if err := user.BindCard(rfid, u.timeProvider); err != nil {
			return err
		}
		if err := u.assignWalletID(ctx, user); err != nil {
			return err
		}
		return userRepo.Update(ctx, user)
	})
	if err != nil {
		common.LogFailure(u.logger, "Card registration failed", err, map[string]any{
			"email": email,
			"rfid":  rfid,
		})
		return nil, err
	}

	u.logger.Info("Card registered", map[string]any{
		"user_id":   user.ID,
		"rfid":      rfid,
		"wallet_id": user.WalletID,
	})
	return user, nil
}
