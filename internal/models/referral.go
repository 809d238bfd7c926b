package models

import (
	"time"
)

type ReferralState struct {
	OwnCode     string     `json:"own_code"`
	EnteredCode *string    `json:"entered_code"`
	EnteredAt   *time.Time `json:"entered_at"`
}
