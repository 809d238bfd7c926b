package models

import (
	"time"
)

type BadgeKind string

const (
	BADGE_KIND_THRESHOLD BadgeKind = "threshold"
	BADGE_KIND_EVENT     BadgeKind = "event"

	BADGE_BRONZE         = "bronze"
	BADGE_SILVER         = "silver"
	BADGE_GOLD           = "gold"
	BADGE_PLATINUM       = "platinum"
	BADGE_DIAMOND        = "diamond"
	BADGE_FIRST_VIDEO    = "first_video"
	BADGE_FIRST_CASHOUT  = "first_cashout"
	BADGE_FIRST_REFERRAL = "first_referral"
	BADGE_STREAK_7       = "streak_7"
	BADGE_STREAK_30      = "streak_30"
)

type Badge struct {
	ID        string    `yaml:"id" json:"id"`
	Title     string    `yaml:"title" json:"title"`
	Reward    int64     `yaml:"reward" json:"reward"`
	Kind      BadgeKind `yaml:"kind" json:"kind"`
	Threshold int64     `yaml:"threshold" json:"threshold,omitempty"`
}

type BadgeState struct {
	BadgeID      string     `json:"badge_id"`
	RewardPoints int64      `json:"reward_points"`
	Claimed      bool       `json:"claimed"`
	UnlockedAt   time.Time  `json:"unlocked_at"`
	ClaimedAt    *time.Time `json:"claimed_at"`
}

type BadgeView struct {
	Badge
	Unlocked   bool       `json:"unlocked"`
	Claimed    bool       `json:"claimed"`
	UnlockedAt *time.Time `json:"unlocked_at"`
}
