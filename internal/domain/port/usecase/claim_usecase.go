package usecase

import (
	"context"

	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/entity"
)

// ClaimResult is what the kiosk shows after a successful claim
type ClaimResult struct {
	UserID   string
	UserName string
	Order    *entity.Order
}

// ClaimUseCase defines the kiosk redemption operations
type ClaimUseCase interface {
	// ResolveClaim claims the oldest pending order of the card holder
	ResolveClaim(ctx context.Context, rfid string) (*ClaimResult, error)

	// ClaimByCode claims the user's pending order carrying the printed code
	ClaimByCode(ctx context.Context, userID, code string) (*ClaimResult, error)
}
