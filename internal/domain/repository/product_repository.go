package repository

import (
	"context"

	"golfmarket/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Product, int64, error)
	ListBySellerID(ctx context.Context, sellerID string, status string, limit, offset int) ([]*entity.Product, int64, error)
	IncrementViews(ctx context.Context, id string) error

	// ReclaimExpiredNegotiations releases every negotiation hold whose
	// deadline has passed, restoring the product to "active" and clearing
	// the lock fields. The condition is re-checked atomically per row, so
	// concurrent sweeps (or a sweep racing a decision) reclaim disjoint
	// rows. Returns the number of products reclaimed.
	ReclaimExpiredNegotiations(ctx context.Context) (int, error)
}
