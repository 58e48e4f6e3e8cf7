package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLockActive(t *testing.T) {
	now := time.Now()
	future := now.Add(30 * time.Minute)
	past := now.Add(-30 * time.Minute)

	tests := []struct {
		name    string
		product Product
		want    bool
	}{
		{
			"held with future deadline",
			Product{Status: ProductStatusNegotiating, NegotiatingBuyerID: "b1", NegotiationExpiresAt: &future},
			true,
		},
		{
			"held but deadline passed",
			Product{Status: ProductStatusNegotiating, NegotiatingBuyerID: "b1", NegotiationExpiresAt: &past},
			false,
		},
		{
			"negotiating status without lock fields",
			Product{Status: ProductStatusNegotiating},
			false,
		},
		{
			"active product",
			Product{Status: ProductStatusActive, NegotiatingBuyerID: "b1", NegotiationExpiresAt: &future},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.IsLockActive(now))
		})
	}
}

func TestMainImageURL(t *testing.T) {
	p := Product{Images: []ProductImage{
		{ID: "a", URL: "https://img/second.png", DisplayOrder: 2},
		{ID: "b", URL: "https://img/first.png", DisplayOrder: 1},
	}}

	assert.Equal(t, "https://img/first.png", p.MainImageURL())
	assert.Equal(t, "", (&Product{}).MainImageURL())
}
