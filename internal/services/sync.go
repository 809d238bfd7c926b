package services

import (
	"context"
	"log"

	"dripn/internal/interfaces"
	"dripn/internal/models"
	"dripn/internal/pkg/metrics"

	"github.com/samber/do"
)

// ServiceSync mirrors the local account to the backend. Local state is
// authoritative and always applied first; pushes are best effort and a failed
// push is logged, counted and dropped. The backend converges on the next push.
type ServiceSync struct {
	container *do.Injector
	state     *ServiceState
	backend   interfaces.Backend
	metrics   *metrics.Metrics
}

func NewServiceSync(container *do.Injector) (*ServiceSync, error) {
	state, err := do.Invoke[*ServiceState](container)
	if err != nil {
		return nil, err
	}

	m, err := do.Invoke[*metrics.Metrics](container)
	if err != nil {
		return nil, err
	}

	// no backend configured means sync is disabled
	backend, _ := do.Invoke[interfaces.Backend](container)

	return &ServiceSync{container, state, backend, m}, nil
}

func (service *ServiceSync) Snapshot() (*models.AccountSnapshot, error) {
	state, err := service.state.View()
	if err != nil {
		return nil, err
	}

	return &models.AccountSnapshot{
		OwnCode:        state.Referral.OwnCode,
		EnteredCode:    state.Referral.EnteredCode,
		Username:       state.Account.Username,
		WalletAddress:  state.Account.WalletAddress,
		Balance:        state.Account.Balance,
		LifetimeEarned: state.Account.LifetimeEarned,
		Tier:           state.Account.Tier,
		SyncedAt:       service.state.Now().UTC(),
	}, nil
}

// Push reports whether the backend accepted the snapshot. It never returns
// an error to the caller.
func (service *ServiceSync) Push(ctx context.Context) bool {
	if service.backend == nil {
		return false
	}

	snapshot, err := service.Snapshot()
	if err != nil {
		log.Printf("sync snapshot: %v\n", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, SYNC_TIMEOUT)
	defer cancel()

	if err := service.backend.PushAccount(ctx, *snapshot); err != nil {
		service.metrics.SyncErrors.Inc()
		log.Printf("sync push: %v\n", err)
		return false
	}
	return true
}

// PushAsync detaches from the caller's cancellation so a finished request
// does not abort the push.
func (service *ServiceSync) PushAsync(ctx context.Context) {
	if service.backend == nil {
		return
	}
	go service.Push(context.WithoutCancel(ctx))
}
