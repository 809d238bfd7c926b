package handler

import (
	"dripn/internal/api"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupTask struct {
	container *do.Injector
}

func (gr *groupTask) VideoStatus(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	available, err := serviceTask.CanStartVideo()
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"available":         available,
		"resets_in_seconds": int64(serviceTask.ResetsIn().Seconds()),
	}, nil)
}

func (gr *groupTask) CompleteVideo(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload api.VideoRequest
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	account, err := serviceTask.CompleteVideo(c.Request().Context(), payload.Amount)
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, account, nil)
}

func (gr *groupTask) RecordLogin(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	streak, err := serviceTask.RecordLogin(c.Request().Context())
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]int{"streak": streak}, nil)
}
