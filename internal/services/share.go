package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"dripn/internal/models"
	"dripn/internal/pkg/metrics"

	"github.com/samber/do"
)

type ServiceShare struct {
	container *do.Injector
	state     *ServiceState
	badge     *ServiceBadge
	settings  *Settings
	metrics   *metrics.Metrics

	messages      *ServiceGacha[string]
	bonusMessages *ServiceGacha[string]
}

func NewServiceShare(container *do.Injector) (*ServiceShare, error) {
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

	messages, err := NewServiceGacha(shareMessages)
	if err != nil {
		return nil, err
	}

	bonusMessages, err := NewServiceGacha(shareBonusMessages)
	if err != nil {
		return nil, err
	}

	return &ServiceShare{container, state, badge, settings, m, messages, bonusMessages}, nil
}

func sharesOn(state *models.State, date string) []models.ShareRecord {
	shares := []models.ShareRecord{}
	for _, share := range state.Shares {
		if share.Date == date {
			shares = append(shares, share)
		}
	}
	return shares
}

// RecordShare rewards a share by its position within the day, subject to the
// daily quota and the cooldown between any two shares. Rejections do not
// touch the stored document.
func (service *ServiceShare) RecordShare(ctx context.Context, platform string) (*models.ShareResult, error) {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return nil, ErrInvalidPlatform
	}

	var result models.ShareResult
	var unlocked []models.Badge
	err := service.state.Update(ctx, func(state *models.State) error {
		now := service.state.Now()
		today := now.Format(models.DATE_LAYOUT)
		todays := sharesOn(state, today)

		if len(todays) >= service.settings.ShareDailyLimit {
			result.Message = fmt.Sprintf("Daily share limit reached (%d/%d). Come back tomorrow!", len(todays), service.settings.ShareDailyLimit)
			return errNoChange
		}

		if len(todays) > 0 {
			last := todays[0].Timestamp
			for _, share := range todays[1:] {
				if share.Timestamp.After(last) {
					last = share.Timestamp
				}
			}
			if elapsed := now.Sub(last); elapsed < service.settings.ShareCooldown {
				wait := int(math.Ceil((service.settings.ShareCooldown - elapsed).Seconds()))
				result.Message = fmt.Sprintf("Please wait %d seconds before sharing again.", wait)
				return errNoChange
			}
		}

		ordinal := len(todays) + 1
		reward := service.settings.ShareReward(ordinal)

		// only today's records matter, older days are dropped on write
		state.Shares = append(todays, models.ShareRecord{
			Date:      today,
			Platform:  platform,
			Timestamp: now,
		})

		if reward > 0 {
			applyCredit(state, reward, SOURCE_SHARE_PREFIX+platform, now)
			unlocked = service.badge.unlockThresholds(state, now)
		}

		result.Accepted = true
		result.Reward = reward
		result.Message = service.message(ordinal, reward, platform)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Accepted {
		service.metrics.Shares.WithLabelValues("accepted").Inc()
		service.metrics.Credits.WithLabelValues(sourceLabel(SOURCE_SHARE_PREFIX)).Add(float64(result.Reward))
		service.badge.announce(ctx, unlocked)
	} else {
		service.metrics.Shares.WithLabelValues("rejected").Inc()
	}
	return &result, nil
}

func (service *ServiceShare) message(ordinal int, reward int64, platform string) string {
	if ordinal > 1 && reward > service.settings.ShareReward(ordinal-1) {
		return fmt.Sprintf(service.bonusMessages.Pick(), reward, platform)
	}
	return fmt.Sprintf(service.messages.Pick(), reward, platform)
}

func (service *ServiceShare) DailyShareCount() (int, error) {
	state, err := service.state.View()
	if err != nil {
		return 0, err
	}
	return len(sharesOn(state, service.state.Today())), nil
}

// RemainingShares is the quota left today, for gating the share button.
func (service *ServiceShare) RemainingShares() (int, error) {
	count, err := service.DailyShareCount()
	if err != nil {
		return 0, err
	}
	if remaining := service.settings.ShareDailyLimit - count; remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}
