package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"golfmarket/internal/domain/entity"
	"golfmarket/internal/domain/repository"
	"golfmarket/internal/infrastructure/websocket"
	"golfmarket/pkg/errors"
	"golfmarket/pkg/logger"
)

// negotiationWindow is how long a product stays exclusively held for a
// buyer after their offer is accepted or countered. Fixed policy, not
// configurable per product.
const negotiationWindow = time.Hour

type NegotiationUseCase struct {
	offerRepo           repository.OfferRepository
	productRepo         repository.ProductRepository
	userRepo            repository.UserRepository
	notificationUseCase *NotificationUseCase
	wsManager           *websocket.Manager
}

func NewNegotiationUseCase(
	offerRepo repository.OfferRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notificationUseCase *NotificationUseCase,
	wsManager *websocket.Manager,
) *NegotiationUseCase {
	return &NegotiationUseCase{
		offerRepo:           offerRepo,
		productRepo:         productRepo,
		userRepo:            userRepo,
		notificationUseCase: notificationUseCase,
		wsManager:           wsManager,
	}
}

type CreateOfferInput struct {
	ProductID string  `json:"product_id"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message"`
}

type CounterInput struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

// OfferView is the seller/buyer-facing projection of an offer, enriched
// with the counterparty's display identity and a product snapshot. It is
// computed on read and never persisted.
type OfferView struct {
	Offer         *entity.Offer `json:"offer"`
	BuyerName     string        `json:"buyer_name,omitempty"`
	BuyerPhotoURL string        `json:"buyer_photo_url,omitempty"`
	ProductTitle  string        `json:"product_title"`
	ProductImage  string        `json:"product_image,omitempty"`
	ProductPrice  float64       `json:"product_price"`
	LockActive    bool          `json:"lock_active"`
}

// CreateOffer opens a negotiation: the buyer proposes a price on a
// negotiable product. Many buyers may hold pending offers on the same
// product at once; exclusivity only starts when the seller accepts or
// counters one of them.
func (uc *NegotiationUseCase) CreateOffer(ctx context.Context, buyerID string, input CreateOfferInput) (*entity.Offer, error) {
	if input.Amount <= 0 {
		return nil, errors.Validation("Offer amount must be greater than zero", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if product.DeletedAt != nil {
		return nil, errors.NotFound("Product", nil)
	}
	if !product.IsNegotiable {
		return nil, errors.Validation("Product is not open to offers", nil)
	}
	if product.SellerID == buyerID {
		return nil, errors.Validation("You cannot make an offer on your own product", nil)
	}
	if product.Status != entity.ProductStatusActive && product.Status != entity.ProductStatusNegotiating {
		return nil, errors.InvalidState("Product is not available for offers")
	}

	offer := &entity.Offer{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		BuyerID:     buyerID,
		SellerID:    product.SellerID,
		OfferAmount: input.Amount,
		Message:     input.Message,
		Status:      entity.OfferStatusPending,
	}

	if err := uc.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	uc.pushNotification(ctx, product.SellerID, "Nueva Oferta",
		fmt.Sprintf("Recibiste una oferta de $%s por %s.", formatAmount(input.Amount), product.Title),
		offerLink(offer.ID))
	uc.nudge(product.SellerID, "offer_created", offer)

	return offer, nil
}

// Decide applies the seller's verdict on a pending offer. The offer
// transition and the product lock acquisition happen as one atomic unit
// in the persistence layer; on any failure nothing is applied.
func (uc *NegotiationUseCase) Decide(ctx context.Context, sellerID, offerID, decision string, counter *CounterInput) (*entity.Offer, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.SellerID != sellerID {
		return nil, errors.Forbidden("Only the product's seller can decide on this offer", nil)
	}

	d := repository.OfferDecision{
		OfferID: offerID,
		Status:  decision,
	}

	switch decision {
	case entity.OfferStatusAccepted:
		d.LockExpiresAt = time.Now().Add(negotiationWindow)
	case entity.OfferStatusRejected:
	case entity.OfferStatusCountered:
		if counter == nil || counter.Amount <= 0 {
			return nil, errors.Validation("Counter amount must be greater than zero", nil)
		}
		d.CounterAmount = counter.Amount
		d.CounterMessage = counter.Message
		d.LockExpiresAt = time.Now().Add(negotiationWindow)
	default:
		return nil, errors.Validation("Unknown decision", nil)
	}

	updated, err := uc.offerRepo.ApplyDecision(ctx, d)
	if err != nil {
		return nil, err
	}

	uc.notifyBuyerOfDecision(ctx, updated)
	uc.nudge(updated.BuyerID, "offer_decided", updated)

	return updated, nil
}

func (uc *NegotiationUseCase) Accept(ctx context.Context, sellerID, offerID string) (*entity.Offer, error) {
	return uc.Decide(ctx, sellerID, offerID, entity.OfferStatusAccepted, nil)
}

func (uc *NegotiationUseCase) Reject(ctx context.Context, sellerID, offerID string) (*entity.Offer, error) {
	return uc.Decide(ctx, sellerID, offerID, entity.OfferStatusRejected, nil)
}

func (uc *NegotiationUseCase) Counter(ctx context.Context, sellerID, offerID string, amount float64, message string) (*entity.Offer, error) {
	return uc.Decide(ctx, sellerID, offerID, entity.OfferStatusCountered, &CounterInput{
		Amount:  amount,
		Message: message,
	})
}

// DeleteOffer removes an offer outright. Housekeeping only: allowed at
// any status, and never touches the product lock.
func (uc *NegotiationUseCase) DeleteOffer(ctx context.Context, sellerID, offerID string) error {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return err
	}

	if offer.SellerID != sellerID {
		return errors.Forbidden("Only the product's seller can delete this offer", nil)
	}

	return uc.offerRepo.Delete(ctx, offerID)
}

// ListSellerOffers returns the seller's received offers newest-first,
// enriched with buyer identity and product snapshot.
func (uc *NegotiationUseCase) ListSellerOffers(ctx context.Context, sellerID string) ([]*OfferView, error) {
	offers, err := uc.offerRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	return uc.buildViews(ctx, offers, true), nil
}

// ListBuyerOffers returns the buyer's own offers newest-first (the
// "my orders" tab backing).
func (uc *NegotiationUseCase) ListBuyerOffers(ctx context.Context, buyerID string) ([]*OfferView, error) {
	offers, err := uc.offerRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	return uc.buildViews(ctx, offers, false), nil
}

// PendingOfferCount backs the seller's badge. Recomputed per call; not a
// correctness-relevant value.
func (uc *NegotiationUseCase) PendingOfferCount(ctx context.Context, sellerID string) (int, error) {
	offers, err := uc.offerRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, offer := range offers {
		if offer.Status == entity.OfferStatusPending {
			count++
		}
	}

	return count, nil
}

func (uc *NegotiationUseCase) buildViews(ctx context.Context, offers []*entity.Offer, withBuyer bool) []*OfferView {
	now := time.Now()
	products := make(map[string]*entity.Product)
	buyers := make(map[string]*entity.User)

	views := make([]*OfferView, 0, len(offers))
	for _, offer := range offers {
		view := &OfferView{Offer: offer}

		product, ok := products[offer.ProductID]
		if !ok {
			var err error
			product, err = uc.productRepo.GetByID(ctx, offer.ProductID)
			if err != nil {
				logger.Warn("Failed to load product %s for offer %s: %v", offer.ProductID, offer.ID, err)
				product = nil
			}
			products[offer.ProductID] = product
		}
		if product != nil {
			view.ProductTitle = product.Title
			view.ProductImage = product.MainImageURL()
			view.ProductPrice = product.Price
			view.LockActive = product.IsLockActive(now) && product.NegotiatingBuyerID == offer.BuyerID
		}

		if withBuyer {
			buyer, ok := buyers[offer.BuyerID]
			if !ok {
				var err error
				buyer, err = uc.userRepo.GetByID(ctx, offer.BuyerID)
				if err != nil {
					logger.Warn("Failed to load buyer %s for offer %s: %v", offer.BuyerID, offer.ID, err)
					buyer = nil
				}
				buyers[offer.BuyerID] = buyer
			}
			if buyer != nil {
				view.BuyerName = buyer.DisplayName
				view.BuyerPhotoURL = buyer.PhotoURL
			}
		}

		views = append(views, view)
	}

	return views
}

// notifyBuyerOfDecision emits the buyer-facing copy for a decision.
// Best effort: a failed notification never rolls back the decision.
func (uc *NegotiationUseCase) notifyBuyerOfDecision(ctx context.Context, offer *entity.Offer) {
	productName := "tu producto"
	if product, err := uc.productRepo.GetByID(ctx, offer.ProductID); err == nil {
		productName = product.Title
	} else {
		logger.Warn("Failed to load product %s for notification: %v", offer.ProductID, err)
	}

	var title, message string
	switch offer.Status {
	case entity.OfferStatusAccepted:
		title = "¡Oferta Aceptada!"
		message = fmt.Sprintf("El vendedor aceptó tu oferta por %s. Tienes 1 hora para completar el pago.", productName)
	case entity.OfferStatusCountered:
		title = "Nueva Contraoferta"
		message = fmt.Sprintf("El vendedor hizo una contraoferta de $%s por %s.", formatAmount(offer.CounterAmount), productName)
	case entity.OfferStatusRejected:
		title = "Oferta Rechazada"
		message = fmt.Sprintf("El vendedor rechazó tu oferta por %s.", productName)
	default:
		return
	}

	uc.pushNotification(ctx, offer.BuyerID, title, message, offerLink(offer.ID))
}

func (uc *NegotiationUseCase) pushNotification(ctx context.Context, userID, title, message, link string) {
	if uc.notificationUseCase == nil {
		return
	}
	if err := uc.notificationUseCase.Push(ctx, userID, title, message, link); err != nil {
		logger.Warn("Failed to notify user %s: %v", userID, err)
	}
}

func (uc *NegotiationUseCase) nudge(userID, eventType string, payload interface{}) {
	if uc.wsManager == nil {
		return
	}
	uc.wsManager.SendToUser(userID, websocket.Event{Type: eventType, Payload: payload})
}

func offerLink(offerID string) string {
	return fmt.Sprintf("/?tab=myorders&offer_id=%s", offerID)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
