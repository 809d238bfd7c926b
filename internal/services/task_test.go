package services

import (
	"context"
	"testing"
	"time"

	"dripn/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCompleteVideoDailyCap(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t)
	ctx := context.Background()

	_, err := task.CompleteVideo(ctx, 450)
	require.NoError(t, err)

	// the credit that crosses the cap is paid in full
	account, err := task.CompleteVideo(ctx, 100)
	require.NoError(t, err)
	require.EqualValues(t, 550, account.DailyEarned)

	ok, err := task.CanStartVideo()
	require.NoError(t, err)
	require.False(t, ok)

	_, err = task.CompleteVideo(ctx, 10)
	require.ErrorIs(t, err, ErrDailyCapReached)

	env.clock.Advance(24 * time.Hour)
	ok, err = task.CanStartVideo()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCompleteVideoUnlocksFirstVideo(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.task(t).CompleteVideo(context.Background(), 5)
	require.NoError(t, err)

	views, err := env.badge(t).Badges()
	require.NoError(t, err)
	view := findView(t, views, models.BADGE_FIRST_VIDEO)
	require.True(t, view.Unlocked)
	require.False(t, view.Claimed)
}

func TestRecordLoginStreak(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t)
	ctx := context.Background()

	streak, err := task.RecordLogin(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, streak)

	// same day does not advance
	streak, err = task.RecordLogin(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, streak)

	for day := 2; day <= 7; day++ {
		env.clock.Advance(24 * time.Hour)
		streak, err = task.RecordLogin(ctx)
		require.NoError(t, err)
		require.Equal(t, day, streak)
	}

	views, err := env.badge(t).Badges()
	require.NoError(t, err)
	require.True(t, findView(t, views, models.BADGE_STREAK_7).Unlocked)
	require.False(t, findView(t, views, models.BADGE_STREAK_30).Unlocked)

	// a missed day starts over
	env.clock.Advance(48 * time.Hour)
	streak, err = task.RecordLogin(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, streak)
}

func TestResetsIn(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, 15*time.Hour, env.task(t).ResetsIn())
}
