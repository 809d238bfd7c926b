package services

import (
	"context"

	"github.com/samber/do"
)

// ProvideServices registers every service on the injector. Infrastructure
// (document store, settings, catalog, metrics, locker and the external
// clients) is provided by the binary or the test.
func ProvideServices(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ServiceState, error) {
		return NewServiceState(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceBadge, error) {
		return NewServiceBadge(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceLedger, error) {
		return NewServiceLedger(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceShare, error) {
		return NewServiceShare(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceSync, error) {
		return NewServiceSync(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceReferral, error) {
		return NewServiceReferral(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceTask, error) {
		return NewServiceTask(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceWallet, error) {
		return NewServiceWallet(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceRedemption, error) {
		return NewServiceRedemption(i)
	})
}

// Boot loads the account document and runs the first-launch initialization.
func Boot(ctx context.Context, injector *do.Injector) (*ServiceState, error) {
	state, err := do.Invoke[*ServiceState](injector)
	if err != nil {
		return nil, err
	}
	if err := state.Load(ctx); err != nil {
		return nil, err
	}
	if err := state.Init(ctx); err != nil {
		return nil, err
	}
	return state, nil
}
