package services

import (
	"context"
	"log"
	"strings"
	"time"

	"dripn/internal/interfaces"
	"dripn/internal/models"

	"github.com/samber/do"
)

func ValidWalletAddress(address string) bool {
	return len(strings.TrimSpace(address)) >= MIN_WALLET_ADDRESS_LENGTH
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type ServiceWallet struct {
	container *do.Injector
	state     *ServiceState
	settings  *Settings
	provider  interfaces.SignInProvider
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewServiceWallet(container *do.Injector) (*ServiceWallet, error) {
	state, err := do.Invoke[*ServiceState](container)
	if err != nil {
		return nil, err
	}

	settings, err := do.Invoke[*Settings](container)
	if err != nil {
		return nil, err
	}

	// sign-in is optional, the address can always be typed in
	provider, _ := do.Invoke[interfaces.SignInProvider](container)

	return &ServiceWallet{container, state, settings, provider, sleepContext}, nil
}

// SetSleep replaces the delay between polls.
func (service *ServiceWallet) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	service.sleep = sleep
}

func (service *ServiceWallet) Address() (*string, error) {
	state, err := service.state.View()
	if err != nil {
		return nil, err
	}
	return state.Account.WalletAddress, nil
}

// SetAddress stores the payout address after the coarse length check. Real
// validation is the payout processor's job.
func (service *ServiceWallet) SetAddress(ctx context.Context, address string) (string, error) {
	address = strings.TrimSpace(address)
	if !ValidWalletAddress(address) {
		return "", ErrInvalidAddress
	}

	err := service.state.Update(ctx, func(state *models.State) error {
		state.Account.WalletAddress = &address
		return nil
	})
	if err != nil {
		return "", err
	}
	return address, nil
}

func (service *ServiceWallet) SignIn(ctx context.Context) (*models.SignInRequest, error) {
	if service.provider == nil {
		return nil, ErrSignInUnavailable
	}
	return service.provider.CreateSignIn(ctx)
}

// AwaitSignIn polls the sign-in service a bounded number of times. A status
// error costs one attempt; rejection, expiry and cancellation end the wait.
func (service *ServiceWallet) AwaitSignIn(ctx context.Context, uuid string) (string, error) {
	if service.provider == nil {
		return "", ErrSignInUnavailable
	}

	for attempt := 1; attempt <= service.settings.WalletPollAttempts; attempt++ {
		status, err := service.provider.SignInStatus(ctx, uuid)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			log.Printf("sign-in %s attempt %d: %v\n", uuid, attempt, err)
		} else {
			switch {
			case status.Signed && status.Account != "":
				return service.SetAddress(ctx, status.Account)
			case status.Expired:
				return "", ErrSignInExpired
			case status.Resolved:
				return "", ErrSignInRejected
			}
		}

		if attempt == service.settings.WalletPollAttempts {
			break
		}
		if err := service.sleep(ctx, service.settings.WalletPollDelay); err != nil {
			return "", err
		}
	}

	return "", ErrSignInTimeout
}
