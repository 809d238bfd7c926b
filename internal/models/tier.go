package models

type Tier string

const (
	TIER_BRONZE Tier = "Bronze"
	TIER_SILVER Tier = "Silver"
	TIER_GOLD   Tier = "Gold"
)

type TierProgress struct {
	Tier           Tier  `json:"tier"`
	LifetimeEarned int64 `json:"lifetime_earned"`
	NextTier       *Tier `json:"next_tier"`
	NextTierAt     int64 `json:"next_tier_at"`
	PointsToNext   int64 `json:"points_to_next"`
}
