package handler

import (
	"dripn/internal/api"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupShare struct {
	container *do.Injector
}

func (gr *groupShare) Status(c echo.Context) error {
	serviceShare, err := do.Invoke[*services.ServiceShare](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	count, err := serviceShare.DailyShareCount()
	if err != nil {
		return abort(c, nil, err)
	}

	remaining, err := serviceShare.RemainingShares()
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]int{
		"today":     count,
		"remaining": remaining,
	}, nil)
}

// RecordShare answers 200 for rejected shares too; the result says why.
func (gr *groupShare) RecordShare(c echo.Context) error {
	serviceShare, err := do.Invoke[*services.ServiceShare](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload api.ShareRequest
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	result, err := serviceShare.RecordShare(c.Request().Context(), payload.Platform)
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, result, nil)
}
