package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dripn/internal/models"

	"github.com/stretchr/testify/require"
)

func TestThresholdBadgeScenarioC(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger(t).Credit(ctx, 100, "Video")
	require.NoError(t, err)
	require.Equal(t, 1, env.notifier.count())

	views, err := env.badge(t).Badges()
	require.NoError(t, err)
	bronze := findView(t, views, models.BADGE_BRONZE)
	require.True(t, bronze.Unlocked)
	require.False(t, bronze.Claimed)
	require.Equal(t, models.BADGE_BRONZE, views[0].ID, "unclaimed badges are listed first")

	// the badge reward is not credited until claimed
	require.EqualValues(t, 100, env.account(t).Balance)

	reward, err := env.badge(t).ClaimBadgeReward(ctx, models.BADGE_BRONZE)
	require.NoError(t, err)
	require.EqualValues(t, 10, reward)

	account := env.account(t)
	require.EqualValues(t, 110, account.Balance)
	require.EqualValues(t, 110, account.LifetimeEarned)

	history, err := env.ledger(t).History(1)
	require.NoError(t, err)
	require.Equal(t, "Badge: bronze", history[0].Source)
}

func TestClaimTwiceReturnsZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger(t).Credit(ctx, 150, "Video")
	require.NoError(t, err)

	reward, err := env.badge(t).ClaimBadgeReward(ctx, models.BADGE_BRONZE)
	require.NoError(t, err)
	require.EqualValues(t, 10, reward)

	saves := env.store.saves
	reward, err = env.badge(t).ClaimBadgeReward(ctx, models.BADGE_BRONZE)
	require.NoError(t, err)
	require.EqualValues(t, 0, reward)
	require.Equal(t, saves, env.store.saves)
	require.EqualValues(t, 160, env.account(t).Balance)
}

func TestClaimLockedBadgeReturnsZero(t *testing.T) {
	env := newTestEnv(t)

	reward, err := env.badge(t).ClaimBadgeReward(context.Background(), models.BADGE_GOLD)
	require.NoError(t, err)
	require.EqualValues(t, 0, reward)

	reward, err = env.badge(t).ClaimBadgeReward(context.Background(), "no-such-badge")
	require.NoError(t, err)
	require.EqualValues(t, 0, reward)
	require.EqualValues(t, 0, env.account(t).Balance)
}

func TestThresholdBadgesUnlockOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger(t).Credit(ctx, 600, "Video")
	require.NoError(t, err)
	require.Equal(t, 2, env.notifier.count(), "bronze and silver")

	_, err = env.ledger(t).Credit(ctx, 10, "Video")
	require.NoError(t, err)
	require.Equal(t, 2, env.notifier.count())

	unlocked, err := env.badge(t).Evaluate(ctx)
	require.NoError(t, err)
	require.Empty(t, unlocked)
}

func TestUnlockEventBadge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	unlocked, err := env.badge(t).Unlock(ctx, models.BADGE_FIRST_REFERRAL)
	require.NoError(t, err)
	require.True(t, unlocked)

	unlocked, err = env.badge(t).Unlock(ctx, models.BADGE_FIRST_REFERRAL)
	require.NoError(t, err)
	require.False(t, unlocked)
	require.Equal(t, 1, env.notifier.count())

	_, err = env.badge(t).Unlock(ctx, models.BADGE_GOLD)
	require.ErrorIs(t, err, ErrBadgeAutomatic)

	_, err = env.badge(t).Unlock(ctx, "mystery")
	require.ErrorIs(t, err, ErrUnknownBadge)
}

func TestClaimCanCrossThreshold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger(t).Credit(ctx, 495, "Video")
	require.NoError(t, err)

	// 495 + 10 crosses silver at 500
	reward, err := env.badge(t).ClaimBadgeReward(ctx, models.BADGE_BRONZE)
	require.NoError(t, err)
	require.EqualValues(t, 10, reward)

	views, err := env.badge(t).Badges()
	require.NoError(t, err)
	require.True(t, findView(t, views, models.BADGE_SILVER).Unlocked)
	require.Equal(t, models.TIER_SILVER, env.account(t).Tier)
}

func TestLoadBadgeCatalog(t *testing.T) {
	catalog, err := LoadBadgeCatalog("")
	require.NoError(t, err)
	require.Equal(t, DefaultBadgeCatalog(), catalog)

	path := filepath.Join(t.TempDir(), "badges.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: bronze
  title: Bronze
  reward: 5
  kind: threshold
  threshold: 50
- id: first_video
  title: First Watch
  reward: 1
  kind: event
`), 0o600))

	catalog, err = LoadBadgeCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	badge, ok := catalog.Find(models.BADGE_BRONZE)
	require.True(t, ok)
	require.EqualValues(t, 50, badge.Threshold)
	require.EqualValues(t, 5, badge.Reward)

	require.NoError(t, os.WriteFile(path, []byte(`
- id: bronze
  kind: threshold
`), 0o600))
	_, err = LoadBadgeCatalog(path)
	require.Error(t, err)
}

func TestCatalogValidateRejectsDuplicates(t *testing.T) {
	catalog := BadgeCatalog{
		{ID: "a", Kind: models.BADGE_KIND_EVENT},
		{ID: "a", Kind: models.BADGE_KIND_EVENT},
	}
	require.Error(t, catalog.Validate())
	require.NoError(t, DefaultBadgeCatalog().Validate())
}

func findView(t *testing.T, views []models.BadgeView, id string) models.BadgeView {
	t.Helper()
	for _, view := range views {
		if view.ID == id {
			return view
		}
	}
	t.Fatalf("badge %s not listed", id)
	return models.BadgeView{}
}
