package handler

import (
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBadge struct {
	container *do.Injector
}

func (gr *groupBadge) Badges(c echo.Context) error {
	serviceBadge, err := do.Invoke[*services.ServiceBadge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	badges, err := serviceBadge.Badges()
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, badges, nil)
}

// Unlock is the signal for event badges earned outside the ledger, such as a
// referral confirmed by the backend.
func (gr *groupBadge) Unlock(c echo.Context) error {
	serviceBadge, err := do.Invoke[*services.ServiceBadge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	unlocked, err := serviceBadge.Unlock(c.Request().Context(), c.Param("badge"))
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]bool{"unlocked": unlocked}, nil)
}

func (gr *groupBadge) Claim(c echo.Context) error {
	serviceBadge, err := do.Invoke[*services.ServiceBadge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	reward, err := serviceBadge.ClaimBadgeReward(c.Request().Context(), c.Param("badge"))
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]int64{"reward": reward}, nil)
}
