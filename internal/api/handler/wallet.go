package handler

import (
	"dripn/internal/api"
	"dripn/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupWallet struct {
	container *do.Injector
}

func (gr *groupWallet) Address(c echo.Context) error {
	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	address, err := serviceWallet.Address()
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]*string{"address": address}, nil)
}

func (gr *groupWallet) SetAddress(c echo.Context) error {
	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload api.AddressRequest
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	address, err := serviceWallet.SetAddress(c.Request().Context(), payload.Address)
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]string{"address": address}, nil)
}

func (gr *groupWallet) SignIn(c echo.Context) error {
	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	req, err := serviceWallet.SignIn(c.Request().Context())
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, req, nil)
}

// AwaitSignIn holds the request open until the sign-in resolves, the poll
// budget runs out or the client goes away.
func (gr *groupWallet) AwaitSignIn(c echo.Context) error {
	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	address, err := serviceWallet.AwaitSignIn(c.Request().Context(), c.Param("uuid"))
	if err != nil {
		return abort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]string{"address": address}, nil)
}
