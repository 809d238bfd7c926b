package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"dripn/internal/interfaces"
	"dripn/internal/models"

	"github.com/samber/do"
)

// errNoChange aborts an Update without writing the document.
var errNoChange = errors.New("no change")

// ServiceState owns the account document. There is one per process; every
// other service reads and mutates the account through it.
type ServiceState struct {
	container *do.Injector
	store     interfaces.DocumentStore
	settings  *Settings
	now       func() time.Time

	mu    sync.RWMutex
	state *models.State
}

func NewServiceState(container *do.Injector) (*ServiceState, error) {
	store, err := do.Invoke[interfaces.DocumentStore](container)
	if err != nil {
		return nil, err
	}

	settings, err := do.Invoke[*Settings](container)
	if err != nil {
		return nil, err
	}

	now, err := do.InvokeNamed[func() time.Time](container, "clock")
	if err != nil {
		now = time.Now
	}

	return &ServiceState{container: container, store: store, settings: settings, now: now}, nil
}

func (service *ServiceState) Now() time.Time {
	return service.now()
}

func (service *ServiceState) Today() string {
	return service.now().Format(models.DATE_LAYOUT)
}

// Load rehydrates the document. A missing document yields a fresh account.
func (service *ServiceState) Load(ctx context.Context) error {
	raw, err := service.store.Load(ctx, STATE_KEY)
	if err != nil {
		return err
	}

	var state *models.State
	if raw == nil {
		state = models.NewState(service.now())
	} else {
		state = &models.State{}
		if err := json.Unmarshal(raw, state); err != nil {
			return err
		}
		state.Normalize()
	}

	service.mu.Lock()
	service.state = state
	service.mu.Unlock()
	return nil
}

// Init runs once after Load and performs the first-launch work: issuing the
// referral code. It is a no-op on later launches.
func (service *ServiceState) Init(ctx context.Context) error {
	return service.Update(ctx, func(state *models.State) error {
		if state.Referral.OwnCode != "" {
			return errNoChange
		}

		code, err := GenerateReferralCode(service.settings.ReferralPrefix)
		if err != nil {
			return err
		}
		state.Referral.OwnCode = code
		log.Printf("issued referral code %s\n", code)
		return nil
	})
}

// View returns a deep copy of the current document.
func (service *ServiceState) View() (*models.State, error) {
	service.mu.RLock()
	defer service.mu.RUnlock()

	if service.state == nil {
		return nil, ErrStateNotLoaded
	}
	return service.state.Clone(), nil
}

// Update applies fn to a copy of the document and persists the copy. The
// in-memory document is replaced only once the write succeeded, so a failed
// write leaves balance and history untouched.
func (service *ServiceState) Update(ctx context.Context, fn func(state *models.State) error) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.state == nil {
		return ErrStateNotLoaded
	}

	next := service.state.Clone()
	err := fn(next)
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := service.store.Save(ctx, STATE_KEY, raw); err != nil {
		return err
	}

	service.state = next
	return nil
}
