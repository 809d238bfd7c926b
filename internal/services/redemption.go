package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"dripn/internal/interfaces"
	"dripn/internal/models"
	"dripn/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/shopspring/decimal"
)

const cryptoPrecision = 6

// ServiceRedemption drives the cashout flow:
//
//	input -> (wallet) -> quote -> terms -> confirm -> processing -> success | error
//
// Only one session exists at a time and it is never persisted.
type ServiceRedemption struct {
	container *do.Injector
	state     *ServiceState
	ledger    *ServiceLedger
	badge     *ServiceBadge
	wallet    *ServiceWallet
	oracle    interfaces.PriceOracle
	payout    interfaces.PayoutProcessor
	locker    interfaces.Locker
	settings  *Settings
	metrics   *metrics.Metrics

	mu      sync.Mutex
	session *models.RedemptionSession
}

func NewServiceRedemption(container *do.Injector) (*ServiceRedemption, error) {
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

	wallet, err := do.Invoke[*ServiceWallet](container)
	if err != nil {
		return nil, err
	}

	oracle, err := do.Invoke[interfaces.PriceOracle](container)
	if err != nil {
		return nil, err
	}

	payout, err := do.Invoke[interfaces.PayoutProcessor](container)
	if err != nil {
		return nil, err
	}

	locker, err := do.Invoke[interfaces.Locker](container)
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

	return &ServiceRedemption{
		container: container,
		state:     state,
		ledger:    ledger,
		badge:     badge,
		wallet:    wallet,
		oracle:    oracle,
		payout:    payout,
		locker:    locker,
		settings:  settings,
		metrics:   m,
	}, nil
}

func (service *ServiceRedemption) newSession() *models.RedemptionSession {
	now := service.state.Now()
	return &models.RedemptionSession{
		ID:           uuid.NewString(),
		Step:         models.REDEMPTION_STEP_INPUT,
		Acknowledged: map[string]bool{},
		StartedAt:    now,
		UpdatedAt:    now,
	}
}

func (service *ServiceRedemption) view() *models.RedemptionSession {
	if service.session == nil {
		return nil
	}
	return service.session.Clone()
}

func (service *ServiceRedemption) current(steps ...models.RedemptionStep) error {
	if service.session == nil {
		return ErrNoRedemption
	}
	if service.session.Step == models.REDEMPTION_STEP_PROCESSING {
		return ErrRedemptionProcessing
	}
	for _, step := range steps {
		if service.session.Step == step {
			return nil
		}
	}
	return ErrInvalidStep
}

func (service *ServiceRedemption) moveTo(step models.RedemptionStep) {
	service.session.Step = step
	service.session.UpdatedAt = service.state.Now()
}

func (service *ServiceRedemption) Session() *models.RedemptionSession {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.view()
}

// Start opens the flow, or returns the session already open.
func (service *ServiceRedemption) Start(ctx context.Context) (*models.RedemptionSession, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.session == nil {
		service.session = service.newSession()
	}
	return service.view(), nil
}

// SetAmount validates the requested points. An invalid amount leaves the
// session in input and makes no external call.
func (service *ServiceRedemption) SetAmount(ctx context.Context, amount int64) (*models.RedemptionSession, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.current(models.REDEMPTION_STEP_INPUT); err != nil {
		return service.view(), err
	}

	account, err := service.ledger.Account()
	if err != nil {
		return service.view(), err
	}
	if amount < service.settings.MinRedemption || amount > account.Balance {
		return service.view(), ErrInvalidAmount
	}

	service.session.Amount = amount
	service.session.Error = ""
	if account.WalletAddress == nil || *account.WalletAddress == "" {
		service.moveTo(models.REDEMPTION_STEP_WALLET)
		return service.view(), nil
	}

	service.session.Address = *account.WalletAddress
	return service.quote(ctx)
}

// SubmitAddress persists the address and continues to the quote.
func (service *ServiceRedemption) SubmitAddress(ctx context.Context, address string) (*models.RedemptionSession, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.current(models.REDEMPTION_STEP_WALLET); err != nil {
		return service.view(), err
	}

	address, err := service.wallet.SetAddress(ctx, address)
	if err != nil {
		return service.view(), err
	}

	service.session.Address = address
	return service.quote(ctx)
}

// quote takes a one-off price snapshot. Any oracle failure sends the session
// back to input carrying the message; the user retries by re-entering.
func (service *ServiceRedemption) quote(ctx context.Context) (*models.RedemptionSession, error) {
	spot, err := service.oracle.GetSpotPrice(ctx)
	if err == nil && !spot.IsPositive() {
		err = errors.New("oracle returned a non-positive price")
	}
	if err != nil {
		log.Printf("redemption %s quote: %v\n", service.session.ID, err)
		service.session.Quote = nil
		service.session.Error = "Unable to fetch the current price. Please try again."
		service.moveTo(models.REDEMPTION_STEP_INPUT)
		return service.view(), fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
	}

	usd := decimal.NewFromInt(service.session.Amount).Mul(service.settings.ConversionRate)
	service.session.Quote = &models.Quote{
		Points:         service.session.Amount,
		ConversionRate: service.settings.ConversionRate,
		UsdValue:       usd,
		SpotPrice:      spot,
		CryptoAmount:   usd.DivRound(spot, cryptoPrecision),
		Asset:          service.settings.PayoutAsset,
		QuotedAt:       service.state.Now(),
	}
	service.moveTo(models.REDEMPTION_STEP_QUOTE)
	return service.view(), nil
}

// Proceed acknowledges the quote and its risk warning.
func (service *ServiceRedemption) Proceed(ctx context.Context) (*models.RedemptionSession, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.current(models.REDEMPTION_STEP_QUOTE); err != nil {
		return service.view(), err
	}
	service.moveTo(models.REDEMPTION_STEP_TERMS)
	return service.view(), nil
}

// AcceptTerms records the acknowledgements and moves on only when every
// disclosure is accepted.
func (service *ServiceRedemption) AcceptTerms(ctx context.Context, acks map[string]bool) (*models.RedemptionSession, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.current(models.REDEMPTION_STEP_TERMS); err != nil {
		return service.view(), err
	}

	for _, disclosure := range models.Disclosures {
		service.session.Acknowledged[disclosure] = acks[disclosure]
	}
	for _, disclosure := range models.Disclosures {
		if !service.session.Acknowledged[disclosure] {
			return service.view(), ErrTermsNotAccepted
		}
	}

	service.moveTo(models.REDEMPTION_STEP_CONFIRM)
	return service.view(), nil
}

// Submit sends the quoted redemption to the payout processor. The ledger is
// debited exactly once and only after the processor confirmed success. The
// processor call is not cancelled once issued.
func (service *ServiceRedemption) Submit(ctx context.Context) (*models.RedemptionSession, error) {
	req, release, err := service.beginProcessing(ctx)
	if err != nil || req == nil {
		return service.Session(), err
	}
	defer release()

	result, err := service.payout.SubmitRedemption(context.WithoutCancel(ctx), *req)
	return service.finishProcessing(ctx, result, err)
}

// beginProcessing moves confirm to processing under the account lock. A nil
// request with a nil error means the session went straight to error.
func (service *ServiceRedemption) beginProcessing(ctx context.Context) (*models.PayoutRequest, func(), error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.current(models.REDEMPTION_STEP_CONFIRM); err != nil {
		return nil, nil, err
	}

	state, err := service.state.View()
	if err != nil {
		return nil, nil, err
	}

	release, err := service.locker.Obtain(ctx, LockKeyRedemption(state.Referral.OwnCode))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRedemptionLock, err)
	}

	session := service.session
	if state.Account.Balance < session.Amount {
		release()
		session.Error = ErrInsufficientBalance.Error()
		service.moveTo(models.REDEMPTION_STEP_ERROR)
		return nil, nil, nil
	}

	service.moveTo(models.REDEMPTION_STEP_PROCESSING)
	return &models.PayoutRequest{
		Reference:    session.ID,
		Points:       session.Amount,
		QuotedPrice:  session.Quote.SpotPrice,
		CryptoAmount: session.Quote.CryptoAmount,
		Address:      session.Address,
	}, release, nil
}

func (service *ServiceRedemption) finishProcessing(ctx context.Context, result *models.PayoutResult, err error) (*models.RedemptionSession, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	session := service.session
	if err != nil || result == nil || !result.Success {
		message := "Redemption failed. Please try again later."
		switch {
		case err != nil:
			message = err.Error()
		case result != nil && strings.TrimSpace(result.Error) != "":
			message = result.Error
		}
		log.Printf("redemption %s failed: %s\n", session.ID, message)
		session.Error = message
		service.moveTo(models.REDEMPTION_STEP_ERROR)
		service.metrics.Redemptions.WithLabelValues("failed").Inc()
		return service.view(), nil
	}

	session.TransactionID = result.TransactionID
	session.CryptoAmount = result.CryptoAmount
	if session.CryptoAmount.IsZero() {
		session.CryptoAmount = session.Quote.CryptoAmount
	}
	service.moveTo(models.REDEMPTION_STEP_SUCCESS)
	service.metrics.Redemptions.WithLabelValues("succeeded").Inc()

	if _, err := service.ledger.Debit(ctx, session.Amount); err != nil {
		// the payout went through, the bookkeeping did not
		log.Printf("redemption %s paid as %s but debit failed: %v\n", session.ID, result.TransactionID, err)
		return service.view(), err
	}

	if _, err := service.badge.Unlock(ctx, models.BADGE_FIRST_CASHOUT); err != nil {
		log.Printf("unlock %s: %v\n", models.BADGE_FIRST_CASHOUT, err)
	}
	return service.view(), nil
}

// Restart leaves the error screen with a fresh session.
func (service *ServiceRedemption) Restart(ctx context.Context) (*models.RedemptionSession, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := service.current(models.REDEMPTION_STEP_ERROR); err != nil {
		return service.view(), err
	}
	service.session = service.newSession()
	return service.view(), nil
}

var previousStep = map[models.RedemptionStep]models.RedemptionStep{
	models.REDEMPTION_STEP_WALLET:  models.REDEMPTION_STEP_INPUT,
	models.REDEMPTION_STEP_QUOTE:   models.REDEMPTION_STEP_INPUT,
	models.REDEMPTION_STEP_TERMS:   models.REDEMPTION_STEP_QUOTE,
	models.REDEMPTION_STEP_CONFIRM: models.REDEMPTION_STEP_TERMS,
}

// Back returns to the previous step keeping the selections made so far.
func (service *ServiceRedemption) Back(ctx context.Context) (*models.RedemptionSession, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.session == nil {
		return nil, ErrNoRedemption
	}
	if service.session.Step == models.REDEMPTION_STEP_PROCESSING {
		return service.view(), ErrRedemptionProcessing
	}
	previous, ok := previousStep[service.session.Step]
	if !ok {
		return service.view(), ErrInvalidStep
	}

	service.moveTo(previous)
	return service.view(), nil
}

// Dismiss discards the session from any step but processing.
func (service *ServiceRedemption) Dismiss(ctx context.Context) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.session != nil && service.session.Step == models.REDEMPTION_STEP_PROCESSING {
		return ErrRedemptionProcessing
	}
	service.session = nil
	return nil
}
