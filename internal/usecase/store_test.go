package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"golfmarket/internal/domain/entity"
	"golfmarket/internal/domain/repository"
	"golfmarket/pkg/errors"
)

// memStore is an in-memory stand-in for the Firestore repositories. It
// reproduces the same atomicity contract: ApplyDecision checks the
// pending status and the lock condition under one mutex hold, and
// ReclaimExpiredNegotiations re-checks expiry before resetting.
type memStore struct {
	mu            sync.Mutex
	offers        map[string]entity.Offer
	products      map[string]entity.Product
	users         map[string]entity.User
	notifications []entity.Notification

	failApply   error
	failReclaim error
	failNotify  error
}

func newMemStore() *memStore {
	return &memStore{
		offers:   make(map[string]entity.Offer),
		products: make(map[string]entity.Product),
		users:    make(map[string]entity.User),
	}
}

func (s *memStore) putOffer(o entity.Offer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[o.ID] = o
}

func (s *memStore) putProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *memStore) putUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *memStore) offer(id string) entity.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offers[id]
}

func (s *memStore) product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

// OfferRepository

func (s *memStore) Create(ctx context.Context, offer *entity.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = now
	}
	offer.UpdatedAt = now
	s.offers[offer.ID] = *offer
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.offers[id]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}
	return &offer, nil
}

func (s *memStore) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Offer, error) {
	return s.listOffers(func(o entity.Offer) bool { return o.SellerID == sellerID })
}

func (s *memStore) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Offer, error) {
	return s.listOffers(func(o entity.Offer) bool { return o.BuyerID == buyerID })
}

func (s *memStore) listOffers(match func(entity.Offer) bool) ([]*entity.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var offers []*entity.Offer
	for _, o := range s.offers {
		if match(o) {
			offer := o
			offers = append(offers, &offer)
		}
	}
	sort.Slice(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.offers, id)
	return nil
}

func (s *memStore) ApplyDecision(ctx context.Context, decision repository.OfferDecision) (*entity.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failApply != nil {
		return nil, s.failApply
	}

	offer, ok := s.offers[decision.OfferID]
	if !ok {
		return nil, errors.NotFound("Offer", nil)
	}
	if offer.Status != entity.OfferStatusPending {
		return nil, errors.InvalidState("Offer has already been decided")
	}

	now := time.Now()
	locks := decision.Status == entity.OfferStatusAccepted || decision.Status == entity.OfferStatusCountered

	if locks {
		product, ok := s.products[offer.ProductID]
		if !ok {
			return nil, errors.NotFound("Product", nil)
		}
		if product.IsLockActive(now) && product.NegotiatingBuyerID != offer.BuyerID {
			return nil, errors.LockConflict("Product is locked by another negotiation")
		}
		expiresAt := decision.LockExpiresAt
		product.Status = entity.ProductStatusNegotiating
		product.NegotiatingBuyerID = offer.BuyerID
		product.NegotiationExpiresAt = &expiresAt
		product.UpdatedAt = now
		s.products[product.ID] = product
	}

	offer.Status = decision.Status
	if decision.Status == entity.OfferStatusCountered {
		offer.CounterAmount = decision.CounterAmount
		offer.CounterMessage = decision.CounterMessage
	}
	offer.UpdatedAt = now
	s.offers[offer.ID] = offer

	return &offer, nil
}

// ProductRepository

func (s *memStore) CreateProduct(ctx context.Context, product *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = *product
	return nil
}

func (s *memStore) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return &product, nil
}

func (s *memStore) UpdateProduct(ctx context.Context, product *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.UpdatedAt = time.Now()
	s.products[product.ID] = *product
	return nil
}

func (s *memStore) SoftDeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	now := time.Now()
	product.DeletedAt = &now
	s.products[id] = product
	return nil
}

func (s *memStore) ListProducts(ctx context.Context, filter map[string]interface{}, sortBy string, limit, offset int) ([]*entity.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var products []*entity.Product
	for _, p := range s.products {
		product := p
		products = append(products, &product)
	}
	return products, int64(len(products)), nil
}

func (s *memStore) ListProductsBySellerID(ctx context.Context, sellerID string, status string, limit, offset int) ([]*entity.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var products []*entity.Product
	for _, p := range s.products {
		if p.SellerID == sellerID {
			product := p
			products = append(products, &product)
		}
	}
	return products, int64(len(products)), nil
}

func (s *memStore) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	product.Views++
	s.products[id] = product
	return nil
}

func (s *memStore) ReclaimExpiredNegotiations(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failReclaim != nil {
		return 0, s.failReclaim
	}

	now := time.Now()
	reclaimed := 0
	for id, product := range s.products {
		if product.Status != entity.ProductStatusNegotiating ||
			product.NegotiationExpiresAt == nil ||
			product.NegotiationExpiresAt.After(now) {
			continue
		}
		product.Status = entity.ProductStatusActive
		product.NegotiatingBuyerID = ""
		product.NegotiationExpiresAt = nil
		product.UpdatedAt = now
		s.products[id] = product
		reclaimed++
	}

	return reclaimed, nil
}

// UserRepository

func (s *memStore) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return &user, nil
}

func (s *memStore) CreateUser(ctx context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *memStore) UpdateUser(ctx context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

// NotificationRepository

func (s *memStore) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNotify != nil {
		return s.failNotify
	}
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *memStore) ListNotificationsByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var notifications []*entity.Notification
	for i := range s.notifications {
		if s.notifications[i].UserID == userID {
			n := s.notifications[i]
			notifications = append(notifications, &n)
		}
	}
	return notifications, int64(len(notifications)), nil
}

func (s *memStore) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *memStore) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (s *memStore) lastNotificationFor(userID string) *entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			n := s.notifications[i]
			return &n
		}
	}
	return nil
}

// Per-interface views over memStore. The store's offer methods already
// satisfy repository.OfferRepository; the rest need renamed fronts.

func (s *memStore) offerRepo() repository.OfferRepository { return s }

type memProductRepo struct{ s *memStore }

func (s *memStore) productRepo() repository.ProductRepository { return memProductRepo{s} }

func (r memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.s.CreateProduct(ctx, product)
}

func (r memProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.s.GetProductByID(ctx, id)
}

func (r memProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.s.UpdateProduct(ctx, product)
}

func (r memProductRepo) SoftDelete(ctx context.Context, id string) error {
	return r.s.SoftDeleteProduct(ctx, id)
}

func (r memProductRepo) List(ctx context.Context, filter map[string]interface{}, sortBy string, limit, offset int) ([]*entity.Product, int64, error) {
	return r.s.ListProducts(ctx, filter, sortBy, limit, offset)
}

func (r memProductRepo) ListBySellerID(ctx context.Context, sellerID string, status string, limit, offset int) ([]*entity.Product, int64, error) {
	return r.s.ListProductsBySellerID(ctx, sellerID, status, limit, offset)
}

func (r memProductRepo) IncrementViews(ctx context.Context, id string) error {
	return r.s.IncrementViews(ctx, id)
}

func (r memProductRepo) ReclaimExpiredNegotiations(ctx context.Context) (int, error) {
	return r.s.ReclaimExpiredNegotiations(ctx)
}

type memUserRepo struct{ s *memStore }

func (s *memStore) userRepo() repository.UserRepository { return memUserRepo{s} }

func (r memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.s.GetUserByID(ctx, id)
}

func (r memUserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.CreateUser(ctx, user)
}

func (r memUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.s.UpdateUser(ctx, user)
}

type memNotificationRepo struct{ s *memStore }

func (s *memStore) notificationRepo() repository.NotificationRepository { return memNotificationRepo{s} }

func (r memNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	return r.s.CreateNotification(ctx, notification)
}

func (r memNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	return r.s.ListNotificationsByUser(ctx, userID, limit, offset)
}

func (r memNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	return r.s.CountUnread(ctx, userID)
}

func (r memNotificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.s.MarkRead(ctx, id)
}
