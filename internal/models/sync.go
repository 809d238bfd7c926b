package models

import (
	"time"
)

// AccountSnapshot is what the reconciliation backend receives.
type AccountSnapshot struct {
	OwnCode        string    `json:"own_code"`
	EnteredCode    *string   `json:"entered_code"`
	Username       *string   `json:"username"`
	WalletAddress  *string   `json:"wallet_address"`
	Balance        int64     `json:"balance"`
	LifetimeEarned int64     `json:"lifetime_earned"`
	Tier           Tier      `json:"tier"`
	SyncedAt       time.Time `json:"synced_at"`
}
