package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golfmarket/internal/domain/entity"
)

func lockedProduct(id, buyerID string, expiresAt time.Time) entity.Product {
	return entity.Product{
		ID:                   id,
		SellerID:             "seller-1",
		Title:                "Titleist Pro V1 (docena)",
		Price:                45000,
		IsNegotiable:         true,
		Status:               entity.ProductStatusNegotiating,
		NegotiatingBuyerID:   buyerID,
		NegotiationExpiresAt: &expiresAt,
	}
}

func TestSweepOnceNothingExpired(t *testing.T) {
	store := newMemStore()
	uc := NewSweeperUseCase(store.productRepo(), nil)

	store.putProduct(lockedProduct("prod-1", "buyer-1", time.Now().Add(30*time.Minute)))

	count, err := uc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	got := store.product("prod-1")
	assert.Equal(t, entity.ProductStatusNegotiating, got.Status)
	assert.Equal(t, "buyer-1", got.NegotiatingBuyerID)
}

func TestSweepOnceReclaimsExpiredLock(t *testing.T) {
	store := newMemStore()
	uc := NewSweeperUseCase(store.productRepo(), nil)

	store.putProduct(lockedProduct("prod-1", "buyer-1", time.Now().Add(-time.Second)))
	store.putProduct(lockedProduct("prod-2", "buyer-2", time.Now().Add(30*time.Minute)))

	count, err := uc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	reclaimed := store.product("prod-1")
	assert.Equal(t, entity.ProductStatusActive, reclaimed.Status)
	assert.Empty(t, reclaimed.NegotiatingBuyerID)
	assert.Nil(t, reclaimed.NegotiationExpiresAt)

	held := store.product("prod-2")
	assert.Equal(t, entity.ProductStatusNegotiating, held.Status)
}

func TestSweepIdempotence(t *testing.T) {
	store := newMemStore()
	uc := NewSweeperUseCase(store.productRepo(), nil)

	store.putProduct(lockedProduct("prod-1", "buyer-1", time.Now().Add(-time.Second)))
	store.putProduct(lockedProduct("prod-2", "buyer-2", time.Now().Add(-time.Minute)))

	first, err := uc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := uc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestSweepExpiryTimeline(t *testing.T) {
	store := newMemStore()
	uc := NewSweeperUseCase(store.productRepo(), nil)

	// Locked at T with a one-hour window that has just lapsed.
	lockedAt := time.Now().Add(-time.Hour - time.Second)
	store.putProduct(lockedProduct("prod-1", "buyer-1", lockedAt.Add(time.Hour)))

	count, err := uc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The next cycle finds nothing left to reclaim.
	count, err = uc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSweepSignalsSubscribers(t *testing.T) {
	store := newMemStore()
	uc := NewSweeperUseCase(store.productRepo(), nil)

	store.putProduct(lockedProduct("prod-1", "buyer-1", time.Now().Add(-time.Second)))

	sub := uc.Subscribe()

	_, err := uc.SweepOnce(context.Background())
	require.NoError(t, err)

	select {
	case count := <-sub:
		assert.Equal(t, 1, count)
	default:
		t.Fatal("expected a sweep signal")
	}
}

func TestSweepErrorPropagates(t *testing.T) {
	store := newMemStore()
	uc := NewSweeperUseCase(store.productRepo(), nil)

	store.failReclaim = assert.AnError

	_, err := uc.SweepOnce(context.Background())
	assert.Error(t, err)
}

func TestStartSweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	store := newMemStore()
	uc := NewSweeperUseCase(store.productRepo(), nil)

	store.putProduct(lockedProduct("prod-1", "buyer-1", time.Now().Add(-time.Second)))

	sub := uc.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	uc.Start(ctx)

	select {
	case count := <-sub:
		assert.Equal(t, 1, count)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the startup sweep to signal")
	}

	cancel()

	got := store.product("prod-1")
	assert.Equal(t, entity.ProductStatusActive, got.Status)
}
