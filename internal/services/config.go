package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"dripn/internal/datastore"
	"dripn/internal/models"
	"dripn/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Settings are the tunables the services read. They are resolved once at
// startup from the config table, falling back to the defaults in const.go.
type Settings struct {
	DailyCap           int64
	MinRedemption      int64
	CashoutEligibility int64
	ConversionRate     decimal.Decimal
	PayoutAsset        string
	ShareDailyLimit    int
	ShareCooldown      time.Duration
	ShareRewards       []int64
	ReferralPrefix     string
	WalletPollAttempts int
	WalletPollDelay    time.Duration
}

func DefaultSettings() *Settings {
	return &Settings{
		DailyCap:           DEFAULT_DAILY_CAP,
		MinRedemption:      DEFAULT_MIN_REDEMPTION,
		CashoutEligibility: DEFAULT_CASHOUT_ELIGIBILITY,
		ConversionRate:     decimal.RequireFromString(DEFAULT_CONVERSION_RATE),
		PayoutAsset:        DEFAULT_PAYOUT_ASSET,
		ShareDailyLimit:    DEFAULT_SHARE_DAILY_LIMIT,
		ShareCooldown:      DEFAULT_SHARE_COOLDOWN_SECONDS * time.Second,
		ShareRewards:       append([]int64(nil), DEFAULT_SHARE_REWARDS...),
		ReferralPrefix:     DEFAULT_REFERRAL_PREFIX,
		WalletPollAttempts: DEFAULT_WALLET_POLL_ATTEMPTS,
		WalletPollDelay:    DEFAULT_WALLET_POLL_SECONDS * time.Second,
	}
}

// ShareReward returns the reward for the n-th (1-based) share of the day.
func (s *Settings) ShareReward(n int) int64 {
	if n <= 0 || len(s.ShareRewards) == 0 {
		return 0
	}
	if n > len(s.ShareRewards) {
		return s.ShareRewards[len(s.ShareRewards)-1]
	}
	return s.ShareRewards[n-1]
}

type ServiceConfig struct {
	container *do.Injector
	db        *bun.DB
	cache     caching.Cache
}

func NewServiceConfig(container *do.Injector) (*ServiceConfig, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{container, db, cache}, nil
}

func (service *ServiceConfig) GetStringConfig(ctx context.Context, key string, defaultValue string) (string, error) {
	callback := func() (string, error) {
		config, err := datastore.GetConfigByKey(ctx, service.db, key)
		if errors.Is(err, sql.ErrNoRows) {
			return defaultValue, nil
		}
		if err != nil {
			return defaultValue, err
		}
		return config.Value, nil
	}

	value, err := caching.UseCache(ctx, service.cache, DBKeyConfig(key), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return defaultValue, err
	}

	return value, nil
}

func (service *ServiceConfig) GetIntConfig(ctx context.Context, key string, defaultValue int) (int, error) {
	value, err := service.GetStringConfig(ctx, key, strconv.Itoa(defaultValue))
	if err != nil {
		return defaultValue, err
	}

	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue, err
	}

	return intValue, nil
}

func (service *ServiceConfig) SetConfig(ctx context.Context, key string, value string) error {
	err := datastore.UpsertConfig(ctx, service.db, &models.Config{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}, true)
	if err != nil {
		return err
	}
	return service.cache.Delete(ctx, DBKeyConfig(key))
}

// LoadSettings resolves every tunable. A malformed value is logged and the
// default kept, so one bad row cannot stop the process from starting.
func (service *ServiceConfig) LoadSettings(ctx context.Context) (*Settings, error) {
	settings := DefaultSettings()

	ints := []struct {
		key    string
		target *int64
	}{
		{CONFIG_DAILY_CAP, &settings.DailyCap},
		{CONFIG_MIN_REDEMPTION, &settings.MinRedemption},
		{CONFIG_CASHOUT_ELIGIBILITY, &settings.CashoutEligibility},
	}
	for _, item := range ints {
		v, err := service.GetIntConfig(ctx, item.key, int(*item.target))
		if err != nil {
			log.Printf("config %s: %v\n", item.key, err)
			continue
		}
		*item.target = int64(v)
	}

	shareLimit, err := service.GetIntConfig(ctx, CONFIG_SHARE_DAILY_LIMIT, settings.ShareDailyLimit)
	if err != nil {
		log.Printf("config %s: %v\n", CONFIG_SHARE_DAILY_LIMIT, err)
	}
	settings.ShareDailyLimit = shareLimit

	cooldown, err := service.GetIntConfig(ctx, CONFIG_SHARE_COOLDOWN_SECONDS, DEFAULT_SHARE_COOLDOWN_SECONDS)
	if err != nil {
		log.Printf("config %s: %v\n", CONFIG_SHARE_COOLDOWN_SECONDS, err)
	}
	settings.ShareCooldown = time.Duration(cooldown) * time.Second

	attempts, err := service.GetIntConfig(ctx, CONFIG_WALLET_POLL_ATTEMPTS, settings.WalletPollAttempts)
	if err != nil {
		log.Printf("config %s: %v\n", CONFIG_WALLET_POLL_ATTEMPTS, err)
	}
	settings.WalletPollAttempts = attempts

	pollSeconds, err := service.GetIntConfig(ctx, CONFIG_WALLET_POLL_SECONDS, DEFAULT_WALLET_POLL_SECONDS)
	if err != nil {
		log.Printf("config %s: %v\n", CONFIG_WALLET_POLL_SECONDS, err)
	}
	settings.WalletPollDelay = time.Duration(pollSeconds) * time.Second

	rate, err := service.GetStringConfig(ctx, CONFIG_CONVERSION_RATE, DEFAULT_CONVERSION_RATE)
	if err != nil {
		log.Printf("config %s: %v\n", CONFIG_CONVERSION_RATE, err)
	} else if d, err := decimal.NewFromString(rate); err != nil || !d.IsPositive() {
		log.Printf("config %s: invalid value %q\n", CONFIG_CONVERSION_RATE, rate)
	} else {
		settings.ConversionRate = d
	}

	prefix, err := service.GetStringConfig(ctx, CONFIG_REFERRAL_PREFIX, DEFAULT_REFERRAL_PREFIX)
	if err != nil {
		log.Printf("config %s: %v\n", CONFIG_REFERRAL_PREFIX, err)
	} else if prefix = strings.ToUpper(strings.TrimSpace(prefix)); prefix != "" {
		settings.ReferralPrefix = prefix
	}

	asset, err := service.GetStringConfig(ctx, CONFIG_PAYOUT_ASSET, DEFAULT_PAYOUT_ASSET)
	if err != nil {
		log.Printf("config %s: %v\n", CONFIG_PAYOUT_ASSET, err)
	} else if asset = strings.TrimSpace(asset); asset != "" {
		settings.PayoutAsset = asset
	}

	return settings, nil
}

// DefaultConfigs is what `migrate seed-config` writes on a fresh database.
func DefaultConfigs() map[string]string {
	return map[string]string{
		CONFIG_DAILY_CAP:              strconv.Itoa(DEFAULT_DAILY_CAP),
		CONFIG_MIN_REDEMPTION:         strconv.Itoa(DEFAULT_MIN_REDEMPTION),
		CONFIG_CASHOUT_ELIGIBILITY:    strconv.Itoa(DEFAULT_CASHOUT_ELIGIBILITY),
		CONFIG_CONVERSION_RATE:        DEFAULT_CONVERSION_RATE,
		CONFIG_SHARE_DAILY_LIMIT:      strconv.Itoa(DEFAULT_SHARE_DAILY_LIMIT),
		CONFIG_SHARE_COOLDOWN_SECONDS: strconv.Itoa(DEFAULT_SHARE_COOLDOWN_SECONDS),
		CONFIG_REFERRAL_PREFIX:        DEFAULT_REFERRAL_PREFIX,
		CONFIG_PAYOUT_ASSET:           DEFAULT_PAYOUT_ASSET,
		CONFIG_WALLET_POLL_ATTEMPTS:   strconv.Itoa(DEFAULT_WALLET_POLL_ATTEMPTS),
		CONFIG_WALLET_POLL_SECONDS:    strconv.Itoa(DEFAULT_WALLET_POLL_SECONDS),
	}
}
