package repository

import (
	"context"
	stderrors "errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"golfmarket/internal/domain/entity"
	"golfmarket/internal/domain/repository"
	"golfmarket/pkg/errors"
)

type firestoreOfferRepository struct {
	client *firestore.Client
}

func NewFirestoreOfferRepository(client *firestore.Client) repository.OfferRepository {
	return &firestoreOfferRepository{
		client: client,
	}
}

func (r *firestoreOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	if offer.ID == "" {
		doc := r.client.Collection("offers").NewDoc()
		offer.ID = doc.ID
	}

	now := time.Now()
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = now
	}
	offer.UpdatedAt = now

	_, err := r.client.Collection("offers").Doc(offer.ID).Set(ctx, offer)
	if err != nil {
		return errors.Internal("Failed to create offer", err)
	}

	return nil
}

func (r *firestoreOfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	doc, err := r.client.Collection("offers").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Offer", err)
		}
		return nil, errors.Internal("Failed to get offer", err)
	}

	var offer entity.Offer
	if err := doc.DataTo(&offer); err != nil {
		return nil, errors.Internal("Failed to parse offer data", err)
	}

	return &offer, nil
}

func (r *firestoreOfferRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Offer, error) {
	query := r.client.Collection("offers").Query.
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Desc)

	return r.listOffers(ctx, query)
}

func (r *firestoreOfferRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Offer, error) {
	query := r.client.Collection("offers").Query.
		Where("buyerId", "==", buyerID).
		OrderBy("createdAt", firestore.Desc)

	return r.listOffers(ctx, query)
}

func (r *firestoreOfferRepository) listOffers(ctx context.Context, query firestore.Query) ([]*entity.Offer, error) {
	iter := query.Documents(ctx)
	var offers []*entity.Offer

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate offers", err)
		}
		var offer entity.Offer
		if err := doc.DataTo(&offer); err != nil {
			return nil, errors.Internal("Failed to parse offer data", err)
		}
		offers = append(offers, &offer)
	}

	return offers, nil
}

func (r *firestoreOfferRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("offers").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete offer", err)
	}

	return nil
}

// ApplyDecision runs the offer transition and the product lock acquisition
// in one Firestore transaction. The offer must still be pending when the
// transaction reads it, and an accepted/countered decision only takes the
// lock when the product is free, the previous hold expired, or the hold
// already belongs to this offer's buyer.
func (r *firestoreOfferRepository) ApplyDecision(ctx context.Context, decision repository.OfferDecision) (*entity.Offer, error) {
	var updated *entity.Offer

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		offerRef := r.client.Collection("offers").Doc(decision.OfferID)
		offerDoc, err := tx.Get(offerRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Offer", err)
			}
			return err
		}

		var offer entity.Offer
		if err := offerDoc.DataTo(&offer); err != nil {
			return err
		}

		if offer.Status != entity.OfferStatusPending {
			return errors.InvalidState("Offer has already been decided")
		}

		now := time.Now()
		locks := decision.Status == entity.OfferStatusAccepted || decision.Status == entity.OfferStatusCountered

		if locks {
			productRef := r.client.Collection("products").Doc(offer.ProductID)
			productDoc, err := tx.Get(productRef)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return errors.NotFound("Product", err)
				}
				return err
			}

			var product entity.Product
			if err := productDoc.DataTo(&product); err != nil {
				return err
			}

			if product.IsLockActive(now) && product.NegotiatingBuyerID != offer.BuyerID {
				return errors.LockConflict("Product is locked by another negotiation")
			}

			if err := tx.Update(productRef, []firestore.Update{
				{Path: "status", Value: entity.ProductStatusNegotiating},
				{Path: "negotiatingBuyerId", Value: offer.BuyerID},
				{Path: "negotiationExpiresAt", Value: decision.LockExpiresAt},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}

		offer.Status = decision.Status
		if decision.Status == entity.OfferStatusCountered {
			offer.CounterAmount = decision.CounterAmount
			offer.CounterMessage = decision.CounterMessage
		}
		offer.UpdatedAt = now

		updated = &offer
		return tx.Set(offerRef, &offer)
	})

	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to apply offer decision", err)
	}

	return updated, nil
}
