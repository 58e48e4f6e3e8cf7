package usecase

import (
	"context"
	"sync"
	"time"

	"golfmarket/internal/domain/repository"
	"golfmarket/internal/infrastructure/websocket"
	"golfmarket/pkg/logger"
)

// sweepInterval is the fixed cadence of the convenience sweep. Readers of
// the lock fields must not depend on it: an expired hold counts as
// released the moment its deadline passes, whether or not a sweep ran.
const sweepInterval = 30 * time.Second

// SweeperUseCase reclaims expired negotiation holds on a fixed interval
// for the lifetime of the process.
type SweeperUseCase struct {
	productRepo repository.ProductRepository
	wsManager   *websocket.Manager

	mu          sync.Mutex
	subscribers []chan int
}

func NewSweeperUseCase(productRepo repository.ProductRepository, wsManager *websocket.Manager) *SweeperUseCase {
	return &SweeperUseCase{
		productRepo: productRepo,
		wsManager:   wsManager,
	}
}

// SweepOnce reclaims every product whose hold deadline has passed and
// signals subscribers with the reclaim count. Safe to call concurrently
// with itself and with in-flight decisions; racing callers reclaim
// disjoint rows.
func (uc *SweeperUseCase) SweepOnce(ctx context.Context) (int, error) {
	count, err := uc.productRepo.ReclaimExpiredNegotiations(ctx)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		logger.Info("Sweeper reclaimed %d expired negotiation(s)", count)
		if uc.wsManager != nil {
			uc.wsManager.Broadcast(websocket.Event{
				Type:    "negotiations_swept",
				Payload: map[string]int{"reclaimed": count},
			})
		}
	}

	uc.signal(count)
	return count, nil
}

// Subscribe returns a channel that receives the reclaim count after each
// sweep. Delivery is fire-and-forget: a slow subscriber misses signals
// rather than blocking the sweeper, and ordering across sweeps is not
// guaranteed.
func (uc *SweeperUseCase) Subscribe() <-chan int {
	ch := make(chan int, 1)

	uc.mu.Lock()
	uc.subscribers = append(uc.subscribers, ch)
	uc.mu.Unlock()

	return ch
}

func (uc *SweeperUseCase) signal(count int) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for _, ch := range uc.subscribers {
		select {
		case ch <- count:
		default:
		}
	}
}

// Start sweeps immediately, then on a fixed interval until ctx is
// cancelled. Owned by the process, not by any request or screen.
func (uc *SweeperUseCase) Start(ctx context.Context) {
	go func() {
		uc.runSweep(ctx)

		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				uc.runSweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("Negotiation sweeper started (every %s)", sweepInterval)
}

func (uc *SweeperUseCase) runSweep(ctx context.Context) {
	if _, err := uc.SweepOnce(ctx); err != nil {
		logger.Error("Sweep failed: %v", err)
	}
}
