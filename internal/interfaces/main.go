package interfaces

import (
	"context"

	"dripn/internal/models"

	"github.com/go-redis/redis_rate/v10"
	"github.com/shopspring/decimal"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// DocumentStore persists one serialized document per key. Load returns nil, nil
// when the key has never been written.
type DocumentStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Locker hands out a named exclusive lock. The returned func releases it.
type Locker interface {
	Obtain(ctx context.Context, key string) (func(), error)
}

type PriceOracle interface {
	GetSpotPrice(ctx context.Context) (decimal.Decimal, error)
}

type PayoutProcessor interface {
	SubmitRedemption(ctx context.Context, req models.PayoutRequest) (*models.PayoutResult, error)
}

type SignInProvider interface {
	CreateSignIn(ctx context.Context) (*models.SignInRequest, error)
	SignInStatus(ctx context.Context, uuid string) (*models.SignInStatus, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Backend interface {
	PushAccount(ctx context.Context, snapshot models.AccountSnapshot) error
}
