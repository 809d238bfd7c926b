package handler

import (
	"context"

	"dripn/internal/api"
	"dripn/internal/models"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupRedemption struct {
	container *do.Injector
}

func (gr *groupRedemption) service(c echo.Context) (*services.ServiceRedemption, error) {
	serviceRedemption, err := do.Invoke[*services.ServiceRedemption](gr.container)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return serviceRedemption, nil
}

// step runs a workflow action and renders the resulting session.
func (gr *groupRedemption) step(c echo.Context, action func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error)) error {
	serviceRedemption, err := gr.service(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	session, err := action(c.Request().Context(), serviceRedemption)
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, session, nil)
}

func (gr *groupRedemption) Session(c echo.Context) error {
	serviceRedemption, err := gr.service(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	session := serviceRedemption.Session()
	if session == nil {
		return abort(c, nil, services.ErrNoRedemption)
	}

	return httpx.RestAbort(c, session, nil)
}

func (gr *groupRedemption) Start(c echo.Context) error {
	return gr.step(c, func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error) {
		return service.Start(ctx)
	})
}

func (gr *groupRedemption) SetAmount(c echo.Context) error {
	var payload api.AmountRequest
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	return gr.step(c, func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error) {
		return service.SetAmount(ctx, payload.Amount)
	})
}

func (gr *groupRedemption) SubmitAddress(c echo.Context) error {
	var payload api.AddressRequest
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	return gr.step(c, func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error) {
		return service.SubmitAddress(ctx, payload.Address)
	})
}

func (gr *groupRedemption) Proceed(c echo.Context) error {
	return gr.step(c, func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error) {
		return service.Proceed(ctx)
	})
}

func (gr *groupRedemption) AcceptTerms(c echo.Context) error {
	var payload api.TermsRequest
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	return gr.step(c, func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error) {
		return service.AcceptTerms(ctx, payload.Acknowledged)
	})
}

// Submit answers 200 with the session in success or error; the processor's
// verdict is part of the workflow, not a transport failure.
func (gr *groupRedemption) Submit(c echo.Context) error {
	return gr.step(c, func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error) {
		return service.Submit(ctx)
	})
}

func (gr *groupRedemption) Back(c echo.Context) error {
	return gr.step(c, func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error) {
		return service.Back(ctx)
	})
}

func (gr *groupRedemption) Restart(c echo.Context) error {
	return gr.step(c, func(ctx context.Context, service *services.ServiceRedemption) (*models.RedemptionSession, error) {
		return service.Restart(ctx)
	})
}

func (gr *groupRedemption) Dismiss(c echo.Context) error {
	serviceRedemption, err := gr.service(c)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	if err := serviceRedemption.Dismiss(c.Request().Context()); err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]bool{"dismissed": true}, nil)
}
