package entity

import (
	"time"
)

const (
	ProductStatusDraft          = "draft"
	ProductStatusPendingPayment = "pending_payment"
	ProductStatusActive         = "active"
	ProductStatusNegotiating    = "negotiating"
	ProductStatusSold           = "sold"
)

type ProductImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Product struct {
	ID          string         `json:"id" firestore:"id"`
	SellerID    string         `json:"seller_id" firestore:"sellerId"`
	Title       string         `json:"title" firestore:"title"`
	Description string         `json:"description" firestore:"description"`
	Brand       string         `json:"brand" firestore:"brand"`
	Condition   string         `json:"condition" firestore:"condition"`
	Price       float64        `json:"price" firestore:"price"`
	Images      []ProductImage `json:"images" firestore:"images"`
	Status      string         `json:"status" firestore:"status"`

	// Negotiation lock. NegotiatingBuyerID is set iff Status is
	// "negotiating" and NegotiationExpiresAt is in the future (or
	// pending sweep).
	IsNegotiable         bool       `json:"is_negotiable" firestore:"isNegotiable"`
	NegotiatingBuyerID   string     `json:"negotiating_buyer_id,omitempty" firestore:"negotiatingBuyerId,omitempty"`
	NegotiationExpiresAt *time.Time `json:"negotiation_expires_at,omitempty" firestore:"negotiationExpiresAt,omitempty"`

	Views     int        `json:"views" firestore:"views"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}

// IsLockActive reports whether the product is exclusively held by a buyer
// at the given instant. An expired hold counts as released even if no
// sweep has reclaimed it yet, so every reader of the lock fields must go
// through this check rather than looking at Status alone.
func (p *Product) IsLockActive(now time.Time) bool {
	if p.Status != ProductStatusNegotiating {
		return false
	}
	if p.NegotiatingBuyerID == "" || p.NegotiationExpiresAt == nil {
		return false
	}
	return p.NegotiationExpiresAt.After(now)
}

// MainImageURL returns the first image by display order, or "".
func (p *Product) MainImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	main := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.DisplayOrder < main.DisplayOrder {
			main = img
		}
	}
	return main.URL
}
