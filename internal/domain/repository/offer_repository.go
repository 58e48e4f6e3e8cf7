package repository

import (
	"context"
	"time"

	"golfmarket/internal/domain/entity"
)

// OfferDecision carries a seller's verdict on a pending offer.
// LockExpiresAt is the product hold deadline and is only consulted for
// accepted/countered decisions.
type OfferDecision struct {
	OfferID        string
	Status         string
	CounterAmount  float64
	CounterMessage string
	LockExpiresAt  time.Time
}

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	GetByID(ctx context.Context, id string) (*entity.Offer, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.Offer, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Offer, error)
	Delete(ctx context.Context, id string) error

	// ApplyDecision performs the whole transition as one atomic unit:
	// the offer must still be pending (INVALID_STATE_TRANSITION
	// otherwise), and for accepted/countered decisions the product lock
	// is acquired conditionally — free, expired, or already held by the
	// same buyer — failing with LOCK_CONFLICT when another buyer holds a
	// live lock. Partial application (offer decided but product not
	// locked) cannot occur.
	ApplyDecision(ctx context.Context, decision OfferDecision) (*entity.Offer, error)
}
