package handler

import (
	"dripn/internal/api"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupReferral struct {
	container *do.Injector
}

func (gr *groupReferral) Referral(c echo.Context) error {
	serviceReferral, err := do.Invoke[*services.ServiceReferral](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	referral, err := serviceReferral.Referral()
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, referral, nil)
}

func (gr *groupReferral) EnterCode(c echo.Context) error {
	serviceReferral, err := do.Invoke[*services.ServiceReferral](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload api.ReferralRequest
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	accepted, err := serviceReferral.EnterCode(c.Request().Context(), payload.Code)
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]bool{"accepted": accepted}, nil)
}
