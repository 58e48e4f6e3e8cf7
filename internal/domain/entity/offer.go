package entity

import (
	"time"
)

const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusCountered = "countered"
)

type Offer struct {
	ID          string  `json:"id" firestore:"id"`
	ProductID   string  `json:"product_id" firestore:"productId"`
	BuyerID     string  `json:"buyer_id" firestore:"buyerId"`
	SellerID    string  `json:"seller_id" firestore:"sellerId"`
	OfferAmount float64 `json:"offer_amount" firestore:"offerAmount"`
	Message     string  `json:"message,omitempty" firestore:"message,omitempty"`
	Status      string  `json:"status" firestore:"status"`

	CounterAmount  float64 `json:"counter_amount,omitempty" firestore:"counterAmount,omitempty"`
	CounterMessage string  `json:"counter_message,omitempty" firestore:"counterMessage,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsTerminal reports whether no further seller decision applies.
func (o *Offer) IsTerminal() bool {
	return o.Status == OfferStatusAccepted || o.Status == OfferStatusRejected
}
