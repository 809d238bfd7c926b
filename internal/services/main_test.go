package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dripn/internal/interfaces"
	"dripn/internal/models"
	"dripn/internal/pkg/locker"
	"dripn/internal/pkg/metrics"

	"github.com/samber/do"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	docs    map[string][]byte
	saves   int
	failErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: map[string][]byte{}}
}

func (s *memoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[key], nil
}

func (s *memoryStore) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.docs[key] = append([]byte(nil), value...)
	s.saves++
	return nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeOracle struct {
	mu    sync.Mutex
	price decimal.Decimal
	err   error
	calls int
}

func (o *fakeOracle) GetSpotPrice(ctx context.Context) (decimal.Decimal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	return o.price, o.err
}

type fakePayout struct {
	mu     sync.Mutex
	result *models.PayoutResult
	err    error
	reqs   []models.PayoutRequest
	// block, when set, holds the call until it is closed
	block chan struct{}
}

func (p *fakePayout) SubmitRedemption(ctx context.Context, req models.PayoutRequest) (*models.PayoutResult, error) {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reqs = append(p.reqs, req)
	return p.result, p.err
}

func (p *fakePayout) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.reqs)
}

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *fakeNotifier) Notify(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.texts)
}

type fakeBackend struct {
	pushed chan models.AccountSnapshot
	err    error
}

func (b *fakeBackend) PushAccount(ctx context.Context, snapshot models.AccountSnapshot) error {
	if b.err != nil {
		return b.err
	}
	b.pushed <- snapshot
	return nil
}

type fakeSignIn struct {
	mu       sync.Mutex
	statuses []*models.SignInStatus
	errs     []error
	polls    int
}

func (s *fakeSignIn) CreateSignIn(ctx context.Context) (*models.SignInRequest, error) {
	return &models.SignInRequest{UUID: "payload-1", URL: "https://wallet.example/sign/payload-1"}, nil
}

func (s *fakeSignIn) SignInStatus(ctx context.Context, uuid string) (*models.SignInStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.polls
	s.polls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.statuses) {
		return s.statuses[i], nil
	}
	return &models.SignInStatus{}, nil
}

type testEnv struct {
	container *do.Injector
	clock     *fakeClock
	store     *memoryStore
	settings  *Settings
	oracle    *fakeOracle
	payout    *fakePayout
	notifier  *fakeNotifier
	backend   *fakeBackend
	signIn    *fakeSignIn
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		container: do.New(),
		clock:     &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		store:     newMemoryStore(),
		settings:  DefaultSettings(),
		oracle:    &fakeOracle{price: decimal.RequireFromString("0.5")},
		payout: &fakePayout{result: &models.PayoutResult{
			Success:       true,
			TransactionID: "tx-1",
			CryptoAmount:  decimal.NewFromInt(2),
		}},
		notifier: &fakeNotifier{},
		backend:  &fakeBackend{pushed: make(chan models.AccountSnapshot, 8)},
		signIn:   &fakeSignIn{},
	}

	do.ProvideValue(env.container, env.settings)
	do.ProvideNamedValue(env.container, "clock", env.clock.Now)
	do.ProvideValue[interfaces.DocumentStore](env.container, env.store)
	do.ProvideValue(env.container, DefaultBadgeCatalog())
	do.ProvideValue(env.container, metrics.New(nil))
	do.ProvideValue[interfaces.Locker](env.container, locker.NewLocal())
	do.ProvideValue[interfaces.PriceOracle](env.container, env.oracle)
	do.ProvideValue[interfaces.PayoutProcessor](env.container, env.payout)
	do.ProvideValue[interfaces.Notifier](env.container, env.notifier)
	do.ProvideValue[interfaces.Backend](env.container, env.backend)
	do.ProvideValue[interfaces.SignInProvider](env.container, env.signIn)
	ProvideServices(env.container)

	_, err := Boot(context.Background(), env.container)
	require.NoError(t, err)
	return env
}

func (env *testEnv) ledger(t *testing.T) *ServiceLedger {
	return do.MustInvoke[*ServiceLedger](env.container)
}

func (env *testEnv) badge(t *testing.T) *ServiceBadge {
	return do.MustInvoke[*ServiceBadge](env.container)
}

func (env *testEnv) share(t *testing.T) *ServiceShare {
	return do.MustInvoke[*ServiceShare](env.container)
}

func (env *testEnv) referral(t *testing.T) *ServiceReferral {
	return do.MustInvoke[*ServiceReferral](env.container)
}

func (env *testEnv) redemption(t *testing.T) *ServiceRedemption {
	return do.MustInvoke[*ServiceRedemption](env.container)
}

func (env *testEnv) task(t *testing.T) *ServiceTask {
	return do.MustInvoke[*ServiceTask](env.container)
}

func (env *testEnv) wallet(t *testing.T) *ServiceWallet {
	return do.MustInvoke[*ServiceWallet](env.container)
}

func (env *testEnv) account(t *testing.T) *models.Account {
	t.Helper()
	account, err := env.ledger(t).Account()
	require.NoError(t, err)
	return account
}

var errBoom = errors.New("boom")

func (env *testEnv) state(t *testing.T) *ServiceState {
	return do.MustInvoke[*ServiceState](env.container)
}

func (env *testEnv) sync(t *testing.T) *ServiceSync {
	return do.MustInvoke[*ServiceSync](env.container)
}
