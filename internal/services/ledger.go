package services

import (
	"context"
	"strings"
	"time"

	"dripn/internal/models"
	"dripn/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/samber/do"
)

// applyCredit is the single place balance grows. It returns the lifetime total
// before the credit so callers can detect newly crossed thresholds.
func applyCredit(state *models.State, amount int64, source string, now time.Time) int64 {
	account := &state.Account
	previous := account.LifetimeEarned

	account.Balance += amount
	account.LifetimeEarned += amount

	today := now.Format(models.DATE_LAYOUT)
	if account.DailyEarnedDate != today {
		account.DailyEarned = amount
		account.DailyEarnedDate = today
	} else {
		account.DailyEarned += amount
	}

	account.Tier = TierFor(account.LifetimeEarned)
	prependHistory(state, models.HISTORY_KIND_REWARD, amount, source, now)

	return previous
}

func applyDebit(state *models.State, amount int64, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if state.Account.Balance < amount {
		return ErrInsufficientBalance
	}

	state.Account.Balance -= amount
	prependHistory(state, models.HISTORY_KIND_CASHOUT, amount, models.HISTORY_SOURCE_CASHOUT, now)
	return nil
}

func prependHistory(state *models.State, kind models.HistoryKind, amount int64, source string, now time.Time) {
	entry := models.HistoryEntry{
		ID:          uuid.NewString(),
		Kind:        kind,
		Amount:      amount,
		Source:      source,
		Timestamp:   now,
		DisplayDate: now.Format(models.DISPLAY_DATE_LAYOUT),
	}

	history := make([]models.HistoryEntry, 0, len(state.History)+1)
	history = append(history, entry)
	history = append(history, state.History...)
	if len(history) > models.HISTORY_LIMIT {
		history = history[:models.HISTORY_LIMIT]
	}
	state.History = history
}

func dailyEarned(account models.Account, today string) int64 {
	if account.DailyEarnedDate != today {
		return 0
	}
	return account.DailyEarned
}

// sourceLabel keeps metric cardinality bounded: "Share: x" becomes "Share".
func sourceLabel(source string) string {
	if i := strings.Index(source, ":"); i > 0 {
		return source[:i]
	}
	return source
}

type ServiceLedger struct {
	container *do.Injector
	state     *ServiceState
	badge     *ServiceBadge
	settings  *Settings
	metrics   *metrics.Metrics
}

func NewServiceLedger(container *do.Injector) (*ServiceLedger, error) {
	state, err := do.Invoke[*ServiceState](container)
	if err != nil {
		return nil, err
	}

	badge, err := do.Invoke[*ServiceBadge](container)
	if err != nil {
		return nil, err
	}

	settings, err := do.Invoke[*Settings](container)
	if err != nil {
		return nil, err
	}

	m, err := do.Invoke[*metrics.Metrics](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLedger{container, state, badge, settings, m}, nil
}

// Credit adds earned points. Threshold badges crossed by this credit are
// unlocked in the same write and announced once it has been persisted.
func (service *ServiceLedger) Credit(ctx context.Context, amount int64, source string) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var account models.Account
	var unlocked []models.Badge
	err := service.state.Update(ctx, func(state *models.State) error {
		now := service.state.Now()
		applyCredit(state, amount, source, now)
		unlocked = service.badge.unlockThresholds(state, now)
		account = state.Account
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.metrics.Credits.WithLabelValues(sourceLabel(source)).Add(float64(amount))
	service.badge.announce(ctx, unlocked)
	return &account, nil
}

// Debit removes redeemed points. lifetimeEarned and tier are left alone.
func (service *ServiceLedger) Debit(ctx context.Context, amount int64) (*models.Account, error) {
	var account models.Account
	err := service.state.Update(ctx, func(state *models.State) error {
		if err := applyDebit(state, amount, service.state.Now()); err != nil {
			return err
		}
		account = state.Account
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.metrics.Debits.Add(float64(amount))
	return &account, nil
}

func (service *ServiceLedger) Account() (*models.Account, error) {
	state, err := service.state.View()
	if err != nil {
		return nil, err
	}
	account := state.Account
	account.DailyEarned = dailyEarned(account, service.state.Today())
	return &account, nil
}

func (service *ServiceLedger) History(limit int) ([]models.HistoryEntry, error) {
	state, err := service.state.View()
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(state.History) {
		return state.History[:limit], nil
	}
	return state.History, nil
}

func (service *ServiceLedger) DailyEarned() (int64, error) {
	state, err := service.state.View()
	if err != nil {
		return 0, err
	}
	return dailyEarned(state.Account, service.state.Today()), nil
}

// CanCashout reports the product-wide cashout eligibility, which is a
// separate threshold from the redemption minimum.
func (service *ServiceLedger) CanCashout() (bool, error) {
	state, err := service.state.View()
	if err != nil {
		return false, err
	}
	return state.Account.Balance >= service.settings.CashoutEligibility, nil
}

func (service *ServiceLedger) SetUsername(ctx context.Context, username string) (*models.Account, error) {
	username = strings.TrimSpace(username)

	var account models.Account
	err := service.state.Update(ctx, func(state *models.State) error {
		if username == "" {
			state.Account.Username = nil
		} else {
			state.Account.Username = &username
		}
		account = state.Account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}
