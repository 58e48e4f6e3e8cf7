package repository

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"golfmarket/internal/domain/entity"
	"golfmarket/internal/domain/repository"
	"golfmarket/pkg/errors"
	"golfmarket/pkg/logger"
)

// errHoldStillLive marks a reclaim candidate whose hold was refreshed by a
// racing decision between the query and the transaction.
var errHoldStillLive = stderrors.New("negotiation hold no longer expired")

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		doc := r.client.Collection("products").NewDoc()
		product.ID = doc.ID
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}

	return &product, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}

	return nil
}

func (r *firestoreProductRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.client.Collection("products").Doc(id).Update(ctx, []firestore.Update{
		{Path: "deletedAt", Value: now},
		{Path: "status", Value: "deleted"},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		return errors.Internal("Failed to soft delete product", err)
	}

	return nil
}

func (r *firestoreProductRepository) List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").Query

	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	query = query.Where("deletedAt", "==", nil)

	if sort != "" {
		parts := strings.Split(sort, "_")
		field := parts[0]
		order := firestore.Asc
		if len(parts) > 1 && parts[1] == "desc" {
			order = firestore.Desc
		}
		query = query.OrderBy(field, order)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count products", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	products, err := r.collectProducts(query.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *firestoreProductRepository) ListBySellerID(ctx context.Context, sellerID string, status string, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").Query.
		Where("sellerId", "==", sellerID).
		Where("deletedAt", "==", nil)

	if status != "" {
		query = query.Where("status", "==", status)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count seller products", err)
	}
	total := int64(len(allDocs))

	query = query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	products, err := r.collectProducts(query.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *firestoreProductRepository) collectProducts(iter *firestore.DocumentIterator) ([]*entity.Product, error) {
	var products []*entity.Product

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate products", err)
		}
		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, errors.Internal("Failed to parse product data", err)
		}
		products = append(products, &product)
	}

	return products, nil
}

func (r *firestoreProductRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to increment product views", err)
	}

	return nil
}

// ReclaimExpiredNegotiations queries products whose hold deadline has
// passed and resets each one inside its own transaction. The expiry
// condition is re-checked transactionally, so a hold refreshed by a
// racing decision is left alone and two overlapping sweeps reclaim
// disjoint rows.
func (r *firestoreProductRepository) ReclaimExpiredNegotiations(ctx context.Context) (int, error) {
	now := time.Now()

	query := r.client.Collection("products").Query.
		Where("status", "==", entity.ProductStatusNegotiating).
		Where("negotiationExpiresAt", "<", now)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query expired negotiations", err)
	}

	reclaimed := 0
	for _, doc := range docs {
		ref := doc.Ref
		err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			snap, err := tx.Get(ref)
			if err != nil {
				return err
			}

			var product entity.Product
			if err := snap.DataTo(&product); err != nil {
				return err
			}

			if product.Status != entity.ProductStatusNegotiating ||
				product.NegotiationExpiresAt == nil ||
				product.NegotiationExpiresAt.After(now) {
				return errHoldStillLive
			}

			return tx.Update(ref, []firestore.Update{
				{Path: "status", Value: entity.ProductStatusActive},
				{Path: "negotiatingBuyerId", Value: firestore.Delete},
				{Path: "negotiationExpiresAt", Value: firestore.Delete},
				{Path: "updatedAt", Value: time.Now()},
			})
		})

		if stderrors.Is(err, errHoldStillLive) {
			continue
		}
		if err != nil {
			logger.Warn("Failed to reclaim negotiation for product %s: %v", ref.ID, err)
			continue
		}
		reclaimed++
	}

	return reclaimed, nil
}
