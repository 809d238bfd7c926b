package services

import (
	"context"
	"log"
	"time"

	"dripn/internal/models"
	"dripn/internal/pkg"

	"github.com/samber/do"
)

// ServiceTask turns task-completion signals into ledger credits, applying the
// gates the ledger itself leaves to its callers.
type ServiceTask struct {
	container *do.Injector
	state     *ServiceState
	ledger    *ServiceLedger
	badge     *ServiceBadge
	settings  *Settings
}

func NewServiceTask(container *do.Injector) (*ServiceTask, error) {
	state, err := do.Invoke[*ServiceState](container)
	if err != nil {
		return nil, err
	}

	ledger, err := do.Invoke[*ServiceLedger](container)
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

	return &ServiceTask{container, state, ledger, badge, settings}, nil
}

// CanStartVideo is false once today's earnings reached the daily cap.
func (service *ServiceTask) CanStartVideo() (bool, error) {
	earned, err := service.ledger.DailyEarned()
	if err != nil {
		return false, err
	}
	return earned < service.settings.DailyCap, nil
}

// CompleteVideo credits a rewarded-video completion. The cap gates starting a
// task, so the credit that crosses the cap is still paid in full.
func (service *ServiceTask) CompleteVideo(ctx context.Context, amount int64) (*models.Account, error) {
	ok, err := service.CanStartVideo()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDailyCapReached
	}

	account, err := service.ledger.Credit(ctx, amount, SOURCE_VIDEO)
	if err != nil {
		return nil, err
	}

	if _, err := service.badge.Unlock(ctx, models.BADGE_FIRST_VIDEO); err != nil {
		log.Printf("unlock %s: %v\n", models.BADGE_FIRST_VIDEO, err)
	}
	return account, nil
}

// RecordLogin advances the consecutive-day login streak and returns it.
func (service *ServiceTask) RecordLogin(ctx context.Context) (int, error) {
	var streak int
	err := service.state.Update(ctx, func(state *models.State) error {
		now := service.state.Now()
		today := now.Format(models.DATE_LAYOUT)
		account := &state.Account

		if account.LastLoginDate == today {
			streak = account.LoginStreak
			return errNoChange
		}

		yesterday := now.AddDate(0, 0, -1).Format(models.DATE_LAYOUT)
		if account.LastLoginDate == yesterday {
			account.LoginStreak++
		} else {
			account.LoginStreak = 1
		}
		account.LastLoginDate = today
		streak = account.LoginStreak
		return nil
	})
	if err != nil {
		return 0, err
	}

	milestones := []struct {
		days  int
		badge string
	}{
		{LOGIN_STREAK_WEEK, models.BADGE_STREAK_7},
		{LOGIN_STREAK_MONTH, models.BADGE_STREAK_30},
	}
	for _, m := range milestones {
		if streak < m.days {
			continue
		}
		if _, err := service.badge.Unlock(ctx, m.badge); err != nil {
			log.Printf("unlock %s: %v\n", m.badge, err)
		}
	}
	return streak, nil
}

// ResetsIn is how long until the daily counters roll over.
func (service *ServiceTask) ResetsIn() time.Duration {
	return pkg.UntilNextDay(service.state.Now())
}
