package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RedemptionStep string

const (
	REDEMPTION_STEP_INPUT      RedemptionStep = "input"
	REDEMPTION_STEP_WALLET     RedemptionStep = "wallet"
	REDEMPTION_STEP_QUOTE      RedemptionStep = "quote"
	REDEMPTION_STEP_TERMS      RedemptionStep = "terms"
	REDEMPTION_STEP_CONFIRM    RedemptionStep = "confirm"
	REDEMPTION_STEP_PROCESSING RedemptionStep = "processing"
	REDEMPTION_STEP_SUCCESS    RedemptionStep = "success"
	REDEMPTION_STEP_ERROR      RedemptionStep = "error"

	DISCLOSURE_NON_CANCELLABLE  = "non_cancellable"
	DISCLOSURE_NON_TRANSFERABLE = "non_transferable"
	DISCLOSURE_PROCESSING_TIME  = "processing_time"
	DISCLOSURE_THIRD_PARTY      = "third_party"
	DISCLOSURE_ADDRESS_CORRECT  = "address_correct"
)

var Disclosures = []string{
	DISCLOSURE_NON_CANCELLABLE,
	DISCLOSURE_NON_TRANSFERABLE,
	DISCLOSURE_PROCESSING_TIME,
	DISCLOSURE_THIRD_PARTY,
	DISCLOSURE_ADDRESS_CORRECT,
}

func (step RedemptionStep) Terminal() bool {
	return step == REDEMPTION_STEP_SUCCESS || step == REDEMPTION_STEP_ERROR
}

type Quote struct {
	Points         int64           `json:"points"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	UsdValue       decimal.Decimal `json:"usd_value"`
	SpotPrice      decimal.Decimal `json:"spot_price"`
	CryptoAmount   decimal.Decimal `json:"crypto_amount"`
	Asset          string          `json:"asset"`
	QuotedAt       time.Time       `json:"quoted_at"`
}

// RedemptionSession is transient and never persisted.
type RedemptionSession struct {
	ID            string          `json:"id"`
	Step          RedemptionStep  `json:"step"`
	Amount        int64           `json:"amount"`
	Quote         *Quote          `json:"quote"`
	Address       string          `json:"address"`
	Acknowledged  map[string]bool `json:"acknowledged"`
	TransactionID string          `json:"transaction_id,omitempty"`
	CryptoAmount  decimal.Decimal `json:"crypto_amount"`
	Error         string          `json:"error,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (session *RedemptionSession) Clone() *RedemptionSession {
	clone := *session
	if session.Quote != nil {
		quote := *session.Quote
		clone.Quote = &quote
	}
	clone.Acknowledged = make(map[string]bool, len(session.Acknowledged))
	for k, v := range session.Acknowledged {
		clone.Acknowledged[k] = v
	}
	return &clone
}

type PayoutRequest struct {
	Reference    string          `json:"reference"`
	Points       int64           `json:"points"`
	QuotedPrice  decimal.Decimal `json:"quoted_price"`
	CryptoAmount decimal.Decimal `json:"crypto_amount"`
	Address      string          `json:"address"`
}

type PayoutResult struct {
	Success       bool            `json:"success"`
	CryptoAmount  decimal.Decimal `json:"crypto_amount"`
	TransactionID string          `json:"transaction_id"`
	Error         string          `json:"error"`
}
