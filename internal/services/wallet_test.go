package services

import (
	"context"
	"testing"
	"time"

	"dripn/internal/models"

	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func TestAwaitSignInSigned(t *testing.T) {
	env := newTestEnv(t)
	wallet := env.wallet(t)
	wallet.SetSleep(noSleep)
	env.signIn.statuses = []*models.SignInStatus{
		{},
		{},
		{Resolved: true, Signed: true, Account: testAddress},
	}
	env.signIn.errs = []error{nil, errBoom}

	req, err := wallet.SignIn(context.Background())
	require.NoError(t, err)

	address, err := wallet.AwaitSignIn(context.Background(), req.UUID)
	require.NoError(t, err)
	require.Equal(t, testAddress, address)
	require.Equal(t, 3, env.signIn.polls)

	stored, err := wallet.Address()
	require.NoError(t, err)
	require.Equal(t, testAddress, *stored)
}

func TestAwaitSignInRejectedAndExpired(t *testing.T) {
	env := newTestEnv(t)
	wallet := env.wallet(t)
	wallet.SetSleep(noSleep)

	env.signIn.statuses = []*models.SignInStatus{{Resolved: true}}
	_, err := wallet.AwaitSignIn(context.Background(), "payload-1")
	require.ErrorIs(t, err, ErrSignInRejected)

	env.signIn.polls = 0
	env.signIn.statuses = []*models.SignInStatus{{Expired: true}}
	_, err = wallet.AwaitSignIn(context.Background(), "payload-1")
	require.ErrorIs(t, err, ErrSignInExpired)

	address, err := wallet.Address()
	require.NoError(t, err)
	require.Nil(t, address)
}

func TestAwaitSignInTimeout(t *testing.T) {
	env := newTestEnv(t)
	wallet := env.wallet(t)
	wallet.SetSleep(noSleep)
	env.settings.WalletPollAttempts = 4

	_, err := wallet.AwaitSignIn(context.Background(), "payload-1")
	require.ErrorIs(t, err, ErrSignInTimeout)
	require.Equal(t, 4, env.signIn.polls)
}

func TestAwaitSignInCancelled(t *testing.T) {
	env := newTestEnv(t)
	wallet := env.wallet(t)

	ctx, cancel := context.WithCancel(context.Background())
	wallet.SetSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	})

	_, err := wallet.AwaitSignIn(ctx, "payload-1")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, env.signIn.polls)
}

func TestSetAddressValidates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet(t).SetAddress(context.Background(), "rShort")
	require.ErrorIs(t, err, ErrInvalidAddress)

	address, err := env.wallet(t).SetAddress(context.Background(), "  "+testAddress+"  ")
	require.NoError(t, err)
	require.Equal(t, testAddress, address)
}
