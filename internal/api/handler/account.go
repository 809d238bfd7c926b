package handler

import (
	"errors"
	"strconv"

	"dripn/internal/api"
	"dripn/internal/models"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAccount struct {
	container *do.Injector
}

func (gr *groupAccount) Account(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	account, err := serviceLedger.Account()
	if err != nil {
		return abort(c, nil, err)
	}

	canCashout, err := serviceLedger.CanCashout()
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"account":     account,
		"can_cashout": canCashout,
	}, nil)
}

func (gr *groupAccount) History(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	limit := models.HISTORY_LIMIT
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("invalid limit"), errorx.Invalid))
		}
	}

	history, err := serviceLedger.History(limit)
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, history, nil)
}

func (gr *groupAccount) Tier(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	account, err := serviceLedger.Account()
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, services.TierProgressFor(account.LifetimeEarned), nil)
}

func (gr *groupAccount) SetUsername(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload api.UsernameRequest
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	account, err := serviceLedger.SetUsername(c.Request().Context(), payload.Username)
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, account, nil)
}

// Sync pushes the account to the backend right away.
func (gr *groupAccount) Sync(c echo.Context) error {
	serviceSync, err := do.Invoke[*services.ServiceSync](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, map[string]bool{
		"pushed": serviceSync.Push(c.Request().Context()),
	}, nil)
}
