package models

import (
	"time"
)

type HistoryKind string

const (
	HISTORY_KIND_REWARD  HistoryKind = "reward"
	HISTORY_KIND_CASHOUT HistoryKind = "cashout"

	HISTORY_SOURCE_CASHOUT = "Cashout"
	HISTORY_LIMIT          = 100

	DATE_LAYOUT         = "2006-01-02"
	DISPLAY_DATE_LAYOUT = "Jan 2, 2006"
)

type Account struct {
	Balance         int64     `json:"balance"`
	LifetimeEarned  int64     `json:"lifetime_earned"`
	DailyEarned     int64     `json:"daily_earned"`
	DailyEarnedDate string    `json:"daily_earned_date"`
	Tier            Tier      `json:"tier"`
	Username        *string   `json:"username"`
	WalletAddress   *string   `json:"wallet_address"`
	LoginStreak     int       `json:"login_streak"`
	LastLoginDate   string    `json:"last_login_date"`
	CreatedAt       time.Time `json:"created_at"`
}

type HistoryEntry struct {
	ID          string      `json:"id"`
	Kind        HistoryKind `json:"kind"`
	Amount      int64       `json:"amount"`
	Source      string      `json:"source"`
	Timestamp   time.Time   `json:"timestamp"`
	DisplayDate string      `json:"display_date"`
}

// State is the whole persisted document. It is written wholesale after every mutation.
type State struct {
	Account  Account                `json:"account"`
	History  []HistoryEntry         `json:"history"`
	Badges   map[string]*BadgeState `json:"badges"`
	Shares   []ShareRecord          `json:"shares"`
	Referral ReferralState          `json:"referral"`
}

func NewState(now time.Time) *State {
	return &State{
		Account: Account{
			Tier:      TIER_BRONZE,
			CreatedAt: now,
		},
		History: []HistoryEntry{},
		Badges:  map[string]*BadgeState{},
		Shares:  []ShareRecord{},
	}
}

// Normalize fills the collections a hand-edited or older document may lack.
func (state *State) Normalize() {
	if state.History == nil {
		state.History = []HistoryEntry{}
	}
	if state.Badges == nil {
		state.Badges = map[string]*BadgeState{}
	}
	if state.Shares == nil {
		state.Shares = []ShareRecord{}
	}
	if state.Account.Tier == "" {
		state.Account.Tier = TIER_BRONZE
	}
}

func (state *State) Clone() *State {
	clone := *state
	clone.Account.Username = cloneString(state.Account.Username)
	clone.Account.WalletAddress = cloneString(state.Account.WalletAddress)

	clone.History = make([]HistoryEntry, len(state.History))
	copy(clone.History, state.History)

	clone.Shares = make([]ShareRecord, len(state.Shares))
	copy(clone.Shares, state.Shares)

	clone.Badges = make(map[string]*BadgeState, len(state.Badges))
	for id, badge := range state.Badges {
		b := *badge
		if badge.ClaimedAt != nil {
			claimedAt := *badge.ClaimedAt
			b.ClaimedAt = &claimedAt
		}
		clone.Badges[id] = &b
	}

	clone.Referral.EnteredCode = cloneString(state.Referral.EnteredCode)
	if state.Referral.EnteredAt != nil {
		enteredAt := *state.Referral.EnteredAt
		clone.Referral.EnteredAt = &enteredAt
	}

	return &clone
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
