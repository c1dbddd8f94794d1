package services

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/base-creator-connect/backend/internal/events"
	"github.com/base-creator-connect/backend/internal/models"
	"github.com/base-creator-connect/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memTips struct {
	mu        sync.Mutex
	byHash    map[string]*models.Tip
	createErr error
	creates   int
}

func newMemTips() *memTips {
	return &memTips{byHash: make(map[string]*models.Tip)}
}

func (m *memTips) Create(_ context.Context, t *models.Tip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byHash[strings.ToLower(t.TransactionHash)]; ok {
		return repositories.ErrDuplicateTx
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	cp := *t
	m.byHash[strings.ToLower(t.TransactionHash)] = &cp
	return nil
}

func (m *memTips) GetByHash(_ context.Context, txHash string) (*models.Tip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byHash[strings.ToLower(txHash)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTips) List(_ context.Context, f repositories.TipFilter) ([]models.Tip, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tip
	for _, t := range m.byHash {
		if f.CreatorID != nil && t.CreatorID != *f.CreatorID {
			continue
		}
		if f.FanWallet != nil && t.FanWalletAddress != *f.FanWallet {
			continue
		}
		out = append(out, *t)
	}
	total := len(out)
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *memTips) ListGoalPending(_ context.Context, _ time.Duration, limit int) ([]models.Tip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tip
	for _, t := range m.byHash {
		if t.TipGoalID != nil && !t.GoalApplied {
			out = append(out, *t)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memTips) StatsByCreator(_ context.Context, creatorID uuid.UUID) (*repositories.TipStats, error) {
	return &repositories.TipStats{}, nil
}

type memTiers struct {
	tiers []models.Tier
	err   error
}

func (m *memTiers) Create(_ context.Context, t *models.Tier) error {
	t.ID = uuid.New()
	m.tiers = append(m.tiers, *t)
	return nil
}

func (m *memTiers) GetByID(_ context.Context, id uuid.UUID) (*models.Tier, error) {
	for _, t := range m.tiers {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memTiers) Update(_ context.Context, t *models.Tier) error {
	for i := range m.tiers {
		if m.tiers[i].ID == t.ID {
			m.tiers[i] = *t
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memTiers) ListByCreator(_ context.Context, creatorID uuid.UUID, activeOnly bool) ([]models.Tier, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Tier
	for _, t := range m.tiers {
		if t.CreatorID == creatorID && (!activeOnly || t.IsActive) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTiers) ListActiveByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Tier, error) {
	return m.ListByCreator(ctx, creatorID, true)
}

// memGoals mirrors the repository contract: Increment is atomic and marks
// the tip applied in the same step.
type memGoals struct {
	mu           sync.Mutex
	goals        map[uuid.UUID]*models.TipGoal
	applied      map[uuid.UUID]bool
	incrementErr error
}

func newMemGoals(goals ...models.TipGoal) *memGoals {
	m := &memGoals{goals: make(map[uuid.UUID]*models.TipGoal), applied: make(map[uuid.UUID]bool)}
	for i := range goals {
		g := goals[i]
		m.goals[g.ID] = &g
	}
	return m
}

func (m *memGoals) Create(_ context.Context, g *models.TipGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = uuid.New()
	cp := *g
	m.goals[g.ID] = &cp
	return nil
}

func (m *memGoals) GetByID(_ context.Context, id uuid.UUID) (*models.TipGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.goals[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memGoals) Update(_ context.Context, g *models.TipGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.goals[g.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	current := existing.CurrentAmount
	cp := *g
	cp.CurrentAmount = current
	m.goals[g.ID] = &cp
	return nil
}

func (m *memGoals) ListByCreator(_ context.Context, creatorID uuid.UUID, activeOnly bool) ([]models.TipGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TipGoal
	for _, g := range m.goals {
		if g.CreatorID == creatorID && (!activeOnly || g.IsActive) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memGoals) Increment(_ context.Context, goalID uuid.UUID, amount decimal.Decimal, tipID *uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrementErr != nil {
		return decimal.Zero, m.incrementErr
	}
	if tipID != nil && m.applied[*tipID] {
		return decimal.Zero, repositories.ErrGoalAlreadyApplied
	}
	g, ok := m.goals[goalID]
	if !ok {
		return decimal.Zero, repositories.ErrGoalNotFound
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if tipID != nil {
		m.applied[*tipID] = true
	}
	return g.CurrentAmount, nil
}

func (m *memGoals) add(g models.TipGoal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[g.ID] = &g
}

func (m *memGoals) current(id uuid.UUID) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.goals[id].CurrentAmount
}

type memFans struct {
	mu      sync.Mutex
	wallets []string
}

func (m *memFans) Upsert(_ context.Context, wallet string, _ *string) (*models.Fan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets = append(m.wallets, wallet)
	return &models.Fan{ID: uuid.New(), WalletAddress: wallet}, nil
}

func (m *memFans) GetByWallet(_ context.Context, wallet string) (*models.Fan, error) {
	return nil, repositories.ErrNotFound
}

type memCreators struct {
	mu       sync.Mutex
	creators map[uuid.UUID]*models.Creator
}

func newMemCreators(cs ...models.Creator) *memCreators {
	m := &memCreators{creators: make(map[uuid.UUID]*models.Creator)}
	for i := range cs {
		c := cs[i]
		m.creators[c.ID] = &c
	}
	return m
}

func (m *memCreators) UpsertByWallet(_ context.Context, wallet string) (*models.Creator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.creators {
		if c.WalletAddress == wallet {
			cp := *c
			return &cp, nil
		}
	}
	c := &models.Creator{ID: uuid.New(), WalletAddress: wallet}
	m.creators[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *memCreators) GetByID(_ context.Context, id uuid.UUID) (*models.Creator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.creators[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCreators) GetByWallet(_ context.Context, wallet string) (*models.Creator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.creators {
		if c.WalletAddress == wallet {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memCreators) UpdateProfile(_ context.Context, c *models.Creator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.creators[c.ID] = &cp
	return nil
}

type memNonces struct {
	mu     sync.Mutex
	nonces map[string]*models.AuthNonce
}

func newMemNonces() *memNonces {
	return &memNonces{nonces: make(map[string]*models.AuthNonce)}
}

func (m *memNonces) CreateNonce(_ context.Context, wallet string, ttl time.Duration) (*models.AuthNonce, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := &models.AuthNonce{
		ID:            uuid.New(),
		Nonce:         uuid.NewString(),
		WalletAddress: wallet,
		CreatedAt:     time.Now(),
		ExpiresAt:     time.Now().Add(ttl),
	}
	m.nonces[n.Nonce] = n
	return n, nil
}

func (m *memNonces) ConsumeNonce(_ context.Context, nonce, wallet string) (*models.AuthNonce, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nonces[nonce]
	if !ok || n.Used || n.WalletAddress != wallet || time.Now().After(n.ExpiresAt) {
		return nil, repositories.ErrNonceInvalid
	}
	n.Used = true
	return n, nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (m *memAudit) Log(_ context.Context, entry models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

type memGuard struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func newMemGuard() *memGuard {
	return &memGuard{held: make(map[string]bool)}
}

func (g *memGuard) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return false, g.err
	}
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeTransfer struct {
	hash   string
	sender string
	err    error
	calls  int
	to     string
	value  *big.Int
}

func (f *fakeTransfer) SendTransaction(_ context.Context, to string, valueWei *big.Int) (string, error) {
	f.calls++
	f.to = to
	f.value = valueWei
	if f.err != nil {
		return "", f.err
	}
	return f.hash, nil
}

func (f *fakeTransfer) SenderAddress() string {
	return f.sender
}
