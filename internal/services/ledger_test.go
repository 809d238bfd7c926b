package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"dripn/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCreditScenarioA(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger(t)

	account, err := ledger.Credit(context.Background(), 100, "Video")
	require.NoError(t, err)
	require.EqualValues(t, 100, account.Balance)
	require.EqualValues(t, 100, account.LifetimeEarned)
	require.Equal(t, models.TIER_BRONZE, account.Tier)

	history, err := ledger.History(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, models.HISTORY_KIND_REWARD, history[0].Kind)
	require.EqualValues(t, 100, history[0].Amount)
	require.Equal(t, "Video", history[0].Source)
	require.Equal(t, "Mar 2, 2026", history[0].DisplayDate)
	require.NotEmpty(t, history[0].ID)
}

func TestDebitScenarioB(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger(t)
	ctx := context.Background()

	account, err := ledger.Credit(ctx, 1000, "x")
	require.NoError(t, err)
	require.Equal(t, models.TIER_GOLD, account.Tier)

	account, err = ledger.Debit(ctx, 500)
	require.NoError(t, err)
	require.EqualValues(t, 500, account.Balance)
	require.EqualValues(t, 1000, account.LifetimeEarned)
	require.Equal(t, models.TIER_GOLD, account.Tier)

	history, err := ledger.History(0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, models.HISTORY_KIND_CASHOUT, history[0].Kind)
	require.Equal(t, models.HISTORY_SOURCE_CASHOUT, history[0].Source)
	require.EqualValues(t, 500, history[0].Amount)
}

func TestLedgerSums(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger(t)
	ctx := context.Background()

	credits := []int64{5, 40, 1, 300, 77, 12}
	debits := []int64{20, 100}

	var credited, debited, lastLifetime int64
	for i, amount := range credits {
		account, err := ledger.Credit(ctx, amount, "Video")
		require.NoError(t, err)
		credited += amount
		require.GreaterOrEqual(t, account.LifetimeEarned, lastLifetime)
		lastLifetime = account.LifetimeEarned

		if i < len(debits) {
			account, err = ledger.Debit(ctx, debits[i])
			require.NoError(t, err)
			debited += debits[i]
		}
		require.GreaterOrEqual(t, account.Balance, int64(0))
	}

	account := env.account(t)
	require.Equal(t, credited, account.LifetimeEarned)
	require.Equal(t, credited-debited, account.Balance)
}

func TestDebitRejectsOverdraft(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger(t)
	ctx := context.Background()

	_, err := ledger.Credit(ctx, 50, "Video")
	require.NoError(t, err)

	_, err = ledger.Debit(ctx, 51)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	account := env.account(t)
	require.EqualValues(t, 50, account.Balance)

	history, err := ledger.History(0)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestCreditRejectsNonPositive(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger(t).Credit(context.Background(), 0, "Video")
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = env.ledger(t).Credit(context.Background(), -5, "Video")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDailyEarnedResetsOnNewDay(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger(t)
	ctx := context.Background()

	_, err := ledger.Credit(ctx, 30, "Video")
	require.NoError(t, err)
	_, err = ledger.Credit(ctx, 20, "Video")
	require.NoError(t, err)

	earned, err := ledger.DailyEarned()
	require.NoError(t, err)
	require.EqualValues(t, 50, earned)

	env.clock.Advance(24 * time.Hour)

	earned, err = ledger.DailyEarned()
	require.NoError(t, err)
	require.EqualValues(t, 0, earned)

	account, err := ledger.Credit(ctx, 7, "Video")
	require.NoError(t, err)
	require.EqualValues(t, 7, account.DailyEarned)
	require.Equal(t, "2026-03-03", account.DailyEarnedDate)
}

func TestHistoryCappedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger(t)
	ctx := context.Background()

	for i := 1; i <= 105; i++ {
		_, err := ledger.Credit(ctx, 1, fmt.Sprintf("task-%d", i))
		require.NoError(t, err)
	}

	history, err := ledger.History(0)
	require.NoError(t, err)
	require.Len(t, history, models.HISTORY_LIMIT)
	require.Equal(t, "task-105", history[0].Source)
	require.Equal(t, "task-6", history[len(history)-1].Source)

	limited, err := ledger.History(10)
	require.NoError(t, err)
	require.Len(t, limited, 10)
}

func TestCreditPersistsWholeDocument(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger(t).Credit(context.Background(), 25, "Video")
	require.NoError(t, err)

	var stored models.State
	require.NoError(t, json.Unmarshal(env.store.docs[STATE_KEY], &stored))
	require.EqualValues(t, 25, stored.Account.Balance)
	require.Len(t, stored.History, 1)
	require.NotEmpty(t, stored.Referral.OwnCode)
}

func TestFailedWriteLeavesStateUntouched(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger(t)

	env.store.failErr = errBoom
	_, err := ledger.Credit(context.Background(), 25, "Video")
	require.ErrorIs(t, err, errBoom)

	account := env.account(t)
	require.EqualValues(t, 0, account.Balance)
	history, err := ledger.History(0)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestCanCashoutUsesEligibilityThreshold(t *testing.T) {
	env := newTestEnv(t)
	ledger := env.ledger(t)

	ok, err := ledger.CanCashout()
	require.NoError(t, err)
	require.False(t, ok)

	_, err = ledger.Credit(context.Background(), DEFAULT_CASHOUT_ELIGIBILITY, "Video")
	require.NoError(t, err)

	ok, err = ledger.CanCashout()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSetUsername(t *testing.T) {
	env := newTestEnv(t)

	account, err := env.ledger(t).SetUsername(context.Background(), "  drip_fan ")
	require.NoError(t, err)
	require.NotNil(t, account.Username)
	require.Equal(t, "drip_fan", *account.Username)

	account, err = env.ledger(t).SetUsername(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, account.Username)
}
