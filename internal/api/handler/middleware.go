package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dripn/internal/interfaces"
	"dripn/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/labstack/echo/v4"
)

const (
	RATE_VIDEO_PER_MINUTE      = 10
	RATE_SHARE_PER_MINUTE      = 5
	RATE_REDEMPTION_PER_MINUTE = 3

	TOKEN_ISSUER = "dripn"
	TOKEN_LEEWAY = 2 * time.Minute
)

// IssueToken signs an HS256 token accepted by Authn.
func IssueToken(secret string, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    TOKEN_ISSUER,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret string, token string) error {
	_, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(TOKEN_ISSUER), jwt.WithLeeway(TOKEN_LEEWAY), jwt.WithExpirationRequired())
	return err
}

// Authn terminates requests without a valid bearer token.
func Authn(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("missing access token"), errorx.Authn))
			}

			if err := parseToken(secret, token); err != nil {
				// although it's a client error, we don't want to detailed information
				return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("invalid access token"), errorx.Authn))
			}
			return next(c)
		}
	}
}

// RateLimit throttles a route under a fixed key. A nil limiter disables it.
func RateLimit(l interfaces.Limiter, key string, limit redis_rate.Limit) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if l == nil {
			return next
		}
		return func(c echo.Context) error {
			if err := l.Allow(c.Request().Context(), "rate:"+key, limit); err != nil {
				return httpx.RestAbort(c, nil, classify(err))
			}
			return next(c)
		}
	}
}

// classify maps service errors to the error kinds the HTTP layer renders.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, limiter.ErrRateLimited):
		return errorx.Wrap(err, errorx.RateLimiting)
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrInvalidPlatform),
		errors.Is(err, services.ErrTermsNotAccepted):
		return errorx.Wrap(err, errorx.Validation)
	case errors.Is(err, services.ErrUnknownBadge),
		errors.Is(err, services.ErrNoRedemption):
		return errorx.Wrap(err, errorx.NotExist)
	case errors.Is(err, services.ErrInvalidStep),
		errors.Is(err, services.ErrRedemptionProcessing),
		errors.Is(err, services.ErrRedemptionLock),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrDailyCapReached),
		errors.Is(err, services.ErrBadgeAutomatic),
		errors.Is(err, services.ErrSignInRejected),
		errors.Is(err, services.ErrSignInExpired),
		errors.Is(err, services.ErrSignInTimeout):
		return errorx.Wrap(err, errorx.Invalid)
	}
	return errorx.Wrap(err, errorx.Service)
}

func abort(c echo.Context, data any, err error) error {
	return httpx.RestAbort(c, data, classify(err))
}
