package services

import (
	"dripn/internal/models"
)

var tierThresholds = []struct {
	tier models.Tier
	min  int64
}{
	{models.TIER_GOLD, 1000},
	{models.TIER_SILVER, 500},
	{models.TIER_BRONZE, 0},
}

// TierFor is monotone in lifetimeEarned, which itself never decreases, so a
// tier once reached is never lost.
func TierFor(lifetimeEarned int64) models.Tier {
	for _, t := range tierThresholds {
		if lifetimeEarned >= t.min {
			return t.tier
		}
	}
	return models.TIER_BRONZE
}

func TierProgressFor(lifetimeEarned int64) models.TierProgress {
	progress := models.TierProgress{
		Tier:           TierFor(lifetimeEarned),
		LifetimeEarned: lifetimeEarned,
	}

	// thresholds are sorted high to low, the next tier is the lowest one above us
	for _, t := range tierThresholds {
		if t.min > lifetimeEarned {
			next := t.tier
			progress.NextTier = &next
			progress.NextTierAt = t.min
			progress.PointsToNext = t.min - lifetimeEarned
		}
	}

	return progress
}
