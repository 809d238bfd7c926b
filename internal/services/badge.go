package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"dripn/internal/interfaces"
	"dripn/internal/models"
	"dripn/internal/pkg/metrics"

	"github.com/samber/do"
	"gopkg.in/yaml.v3"
)

type BadgeCatalog []models.Badge

func DefaultBadgeCatalog() BadgeCatalog {
	return BadgeCatalog{
		{ID: models.BADGE_BRONZE, Title: "Bronze Dripper", Reward: 10, Kind: models.BADGE_KIND_THRESHOLD, Threshold: 100},
		{ID: models.BADGE_SILVER, Title: "Silver Dripper", Reward: 25, Kind: models.BADGE_KIND_THRESHOLD, Threshold: 500},
		{ID: models.BADGE_GOLD, Title: "Gold Dripper", Reward: 50, Kind: models.BADGE_KIND_THRESHOLD, Threshold: 1000},
		{ID: models.BADGE_PLATINUM, Title: "Platinum Dripper", Reward: 150, Kind: models.BADGE_KIND_THRESHOLD, Threshold: 5000},
		{ID: models.BADGE_DIAMOND, Title: "Diamond Dripper", Reward: 300, Kind: models.BADGE_KIND_THRESHOLD, Threshold: 10000},
		{ID: models.BADGE_FIRST_VIDEO, Title: "First Watch", Reward: 5, Kind: models.BADGE_KIND_EVENT},
		{ID: models.BADGE_FIRST_CASHOUT, Title: "First Cashout", Reward: 25, Kind: models.BADGE_KIND_EVENT},
		{ID: models.BADGE_FIRST_REFERRAL, Title: "Connector", Reward: 20, Kind: models.BADGE_KIND_EVENT},
		{ID: models.BADGE_STREAK_7, Title: "Week Streak", Reward: 15, Kind: models.BADGE_KIND_EVENT},
		{ID: models.BADGE_STREAK_30, Title: "Month Streak", Reward: 75, Kind: models.BADGE_KIND_EVENT},
	}
}

// LoadBadgeCatalog reads a YAML list of badges. An empty path yields the
// built-in catalog.
func LoadBadgeCatalog(path string) (BadgeCatalog, error) {
	if path == "" {
		return DefaultBadgeCatalog(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var catalog BadgeCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, err
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (catalog BadgeCatalog) Validate() error {
	seen := map[string]bool{}
	for _, badge := range catalog {
		if badge.ID == "" {
			return fmt.Errorf("badge without id")
		}
		if seen[badge.ID] {
			return fmt.Errorf("duplicate badge %q", badge.ID)
		}
		seen[badge.ID] = true

		if badge.Reward < 0 {
			return fmt.Errorf("badge %q: negative reward", badge.ID)
		}
		switch badge.Kind {
		case models.BADGE_KIND_THRESHOLD:
			if badge.Threshold <= 0 {
				return fmt.Errorf("badge %q: threshold must be positive", badge.ID)
			}
		case models.BADGE_KIND_EVENT:
		default:
			return fmt.Errorf("badge %q: unknown kind %q", badge.ID, badge.Kind)
		}
	}
	return nil
}

func (catalog BadgeCatalog) Find(id string) (models.Badge, bool) {
	for _, badge := range catalog {
		if badge.ID == id {
			return badge, true
		}
	}
	return models.Badge{}, false
}

type ServiceBadge struct {
	container *do.Injector
	state     *ServiceState
	catalog   BadgeCatalog
	notifier  interfaces.Notifier
	metrics   *metrics.Metrics
}

func NewServiceBadge(container *do.Injector) (*ServiceBadge, error) {
	state, err := do.Invoke[*ServiceState](container)
	if err != nil {
		return nil, err
	}

	catalog, err := do.Invoke[BadgeCatalog](container)
	if err != nil {
		return nil, err
	}

	m, err := do.Invoke[*metrics.Metrics](container)
	if err != nil {
		return nil, err
	}

	// notifications are optional
	notifier, _ := do.Invoke[interfaces.Notifier](container)

	return &ServiceBadge{container, state, catalog, notifier, m}, nil
}

func unlockBadge(state *models.State, badge models.Badge, now time.Time) bool {
	if _, ok := state.Badges[badge.ID]; ok {
		return false
	}
	state.Badges[badge.ID] = &models.BadgeState{
		BadgeID:      badge.ID,
		RewardPoints: badge.Reward,
		UnlockedAt:   now,
	}
	return true
}

// unlockThresholds unlocks every threshold badge the lifetime total has
// reached and returns only the ones that were not unlocked before.
func (service *ServiceBadge) unlockThresholds(state *models.State, now time.Time) []models.Badge {
	var unlocked []models.Badge
	for _, badge := range service.catalog {
		if badge.Kind != models.BADGE_KIND_THRESHOLD || state.Account.LifetimeEarned < badge.Threshold {
			continue
		}
		if unlockBadge(state, badge, now) {
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}

func (service *ServiceBadge) announce(ctx context.Context, badges []models.Badge) {
	for _, badge := range badges {
		log.Printf("badge unlocked: %s\n", badge.ID)
		if service.notifier == nil {
			continue
		}
		text := fmt.Sprintf("🏅 Badge unlocked: %s! Claim it for +%d drips.", badge.Title, badge.Reward)
		if err := service.notifier.Notify(ctx, text); err != nil {
			log.Printf("notify badge %s: %v\n", badge.ID, err)
		}
	}
}

// Unlock records an event badge. Unlocking twice is a no-op; the returned
// bool reports whether this call did the unlocking.
func (service *ServiceBadge) Unlock(ctx context.Context, id string) (bool, error) {
	badge, ok := service.catalog.Find(id)
	if !ok {
		return false, ErrUnknownBadge
	}
	if badge.Kind != models.BADGE_KIND_EVENT {
		return false, ErrBadgeAutomatic
	}

	var unlocked bool
	err := service.state.Update(ctx, func(state *models.State) error {
		unlocked = unlockBadge(state, badge, service.state.Now())
		if !unlocked {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if unlocked {
		service.announce(ctx, []models.Badge{badge})
	}
	return unlocked, nil
}

// Evaluate re-checks threshold badges against the current lifetime total,
// for instance after the catalog changed.
func (service *ServiceBadge) Evaluate(ctx context.Context) ([]models.Badge, error) {
	var unlocked []models.Badge
	err := service.state.Update(ctx, func(state *models.State) error {
		unlocked = service.unlockThresholds(state, service.state.Now())
		if len(unlocked) == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.announce(ctx, unlocked)
	return unlocked, nil
}

// ClaimBadgeReward is the only path from a badge to the balance. It returns 0
// without side effects when the badge is not unlocked or already claimed.
func (service *ServiceBadge) ClaimBadgeReward(ctx context.Context, id string) (int64, error) {
	var reward int64
	var unlocked []models.Badge
	err := service.state.Update(ctx, func(state *models.State) error {
		badgeState, ok := state.Badges[id]
		if !ok || badgeState.Claimed {
			return errNoChange
		}

		now := service.state.Now()
		reward = badgeState.RewardPoints
		badgeState.Claimed = true
		badgeState.ClaimedAt = &now
		if reward > 0 {
			applyCredit(state, reward, SOURCE_BADGE_PREFIX+id, now)
			unlocked = service.unlockThresholds(state, now)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if reward > 0 {
		service.metrics.BadgeClaims.WithLabelValues(id).Inc()
		service.metrics.Credits.WithLabelValues(sourceLabel(SOURCE_BADGE_PREFIX)).Add(float64(reward))
	}
	service.announce(ctx, unlocked)
	return reward, nil
}

func (service *ServiceBadge) Badges() ([]models.BadgeView, error) {
	state, err := service.state.View()
	if err != nil {
		return nil, err
	}

	views := make([]models.BadgeView, 0, len(service.catalog))
	for _, badge := range service.catalog {
		view := models.BadgeView{Badge: badge}
		if badgeState, ok := state.Badges[badge.ID]; ok {
			unlockedAt := badgeState.UnlockedAt
			view.Unlocked = true
			view.Claimed = badgeState.Claimed
			view.UnlockedAt = &unlockedAt
		}
		views = append(views, view)
	}

	// unclaimed rewards first, then catalog order
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Unlocked && !views[i].Claimed && !(views[j].Unlocked && !views[j].Claimed)
	})
	return views, nil
}
