package services

import (
	"errors"
	"fmt"
	"time"
)

var ErrStateNotLoaded = errors.New("state not loaded")
var ErrInvalidAmount = errors.New("invalid amount")
var ErrInsufficientBalance = errors.New("insufficient balance")
var ErrDailyCapReached = errors.New("daily earning cap reached")
var ErrUnknownBadge = errors.New("unknown badge")
var ErrBadgeAutomatic = errors.New("badge unlocks automatically from lifetime earnings")
var ErrInvalidPlatform = errors.New("invalid share platform")
var ErrInvalidAddress = errors.New("wallet address must be at least 25 characters")
var ErrTermsNotAccepted = errors.New("all disclosures must be accepted")
var ErrNoRedemption = errors.New("no active redemption")
var ErrInvalidStep = errors.New("action not allowed at this redemption step")
var ErrRedemptionProcessing = errors.New("redemption is processing")
var ErrQuoteUnavailable = errors.New("unable to fetch the current price")
var ErrRedemptionLock = errors.New("redemption locked")
var ErrSignInUnavailable = errors.New("wallet sign-in is not configured")
var ErrSignInRejected = errors.New("wallet sign-in rejected")
var ErrSignInExpired = errors.New("wallet sign-in expired")
var ErrSignInTimeout = errors.New("wallet sign-in timed out")

const (
	CONFIG_DAILY_CAP              = "DAILY_CAP"
	CONFIG_MIN_REDEMPTION         = "MIN_REDEMPTION"
	CONFIG_CASHOUT_ELIGIBILITY    = "CASHOUT_ELIGIBILITY"
	CONFIG_CONVERSION_RATE        = "CONVERSION_RATE"
	CONFIG_SHARE_DAILY_LIMIT      = "SHARE_DAILY_LIMIT"
	CONFIG_SHARE_COOLDOWN_SECONDS = "SHARE_COOLDOWN_SECONDS"
	CONFIG_REFERRAL_PREFIX        = "REFERRAL_PREFIX"
	CONFIG_PAYOUT_ASSET           = "PAYOUT_ASSET"
	CONFIG_WALLET_POLL_ATTEMPTS   = "WALLET_POLL_ATTEMPTS"
	CONFIG_WALLET_POLL_SECONDS    = "WALLET_POLL_SECONDS"

	DEFAULT_DAILY_CAP              = 500
	DEFAULT_MIN_REDEMPTION         = 1000
	DEFAULT_CASHOUT_ELIGIBILITY    = 500
	DEFAULT_CONVERSION_RATE        = "0.001"
	DEFAULT_SHARE_DAILY_LIMIT      = 3
	DEFAULT_SHARE_COOLDOWN_SECONDS = 60
	DEFAULT_REFERRAL_PREFIX        = "DRIP"
	DEFAULT_PAYOUT_ASSET           = "XRP"
	DEFAULT_WALLET_POLL_ATTEMPTS   = 60
	DEFAULT_WALLET_POLL_SECONDS    = 2

	REFERRAL_SUFFIX_LENGTH    = 6
	MIN_WALLET_ADDRESS_LENGTH = 25

	STATE_KEY = "dripn:state"

	SOURCE_VIDEO        = "Video"
	SOURCE_SHARE_PREFIX = "Share: "
	SOURCE_BADGE_PREFIX = "Badge: "

	LOGIN_STREAK_WEEK  = 7
	LOGIN_STREAK_MONTH = 30

	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute

	REDEMPTION_LOCK_EXPIRY = 2 * time.Minute
	SYNC_TIMEOUT           = 15 * time.Second
)

// DEFAULT_SHARE_REWARDS is indexed by the ordinal of the share within the day.
var DEFAULT_SHARE_REWARDS = []int64{1, 1, 3}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", key)
}

func LockKeyRedemption(ownCode string) string {
	return fmt.Sprintf("lock:redemption:%s", ownCode)
}
