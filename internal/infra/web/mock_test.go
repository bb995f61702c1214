//go:build !integration

package web

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockTxManager runs the callback inline with a nil handle.
type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

type mockTransactionRepo struct {
	repository.TransactionRepository // Embed interface for forward compatibility
	SumByPeriodError                 error
}

func (m *mockTransactionRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	if m.SumByPeriodError != nil {
		return 0, m.SumByPeriodError
	}
	switch period {
	case "week":
		return 100, nil
	case "month":
		return 1000, nil
	case "year":
		return 10000, nil
	}
	return 0, nil
}

type mockGrantRepo struct {
	repository.UserMembershipRepository // Embed interface
	active                              map[string]int
	CountError                          error
}

func (m *mockGrantRepo) CountActiveByMembership(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	if m.CountError != nil {
		return nil, m.CountError
	}
	if m.active == nil {
		return map[string]int{}, nil
	}
	return m.active, nil
}

type mockAffiliateRepo struct {
	repository.AffiliateRepository // Embed interface
	top                            []*model.AffiliateProfile
	TopError                       error
}

func (m *mockAffiliateRepo) TopByEarnings(ctx context.Context, tx repository.Tx, limit int) ([]*model.AffiliateProfile, error) {
	if m.TopError != nil {
		return nil, m.TopError
	}
	if limit < len(m.top) {
		return m.top[:limit], nil
	}
	return m.top, nil
}

type mockMembershipRepo struct {
	repository.MembershipRepository // Embed interface
	mu                              sync.Mutex
	plans                           []*model.Membership
	SaveError                       error
}

func (m *mockMembershipRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Membership) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, plan)
	return nil
}

func (m *mockMembershipRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plans, nil
}

func (m *mockMembershipRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockMembershipRepo) UpdateCommission(ctx context.Context, tx repository.Tx, id string, typ model.CommissionType, rate decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.ID == id {
			p.CommissionType = typ
			p.AffiliateCommissionRate = rate
			return nil
		}
	}
	return domain.ErrNotFound
}

type mockPendingRevenueRepo struct {
	repository.PendingRevenueRepository // Embed interface
	mu                                  sync.Mutex
	rows                                map[string]*model.PendingRevenue
	DecideError                         error
}

func (m *mockPendingRevenueRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PendingRevenue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (m *mockPendingRevenueRepo) ListPending(ctx context.Context, tx repository.Tx, limit int) ([]*model.PendingRevenue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.PendingRevenue, 0, len(m.rows))
	for _, pr := range m.rows {
		if pr.Status == model.PendingRevenuePending {
			cp := *pr
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockPendingRevenueRepo) Decide(ctx context.Context, tx repository.Tx, id string, status model.PendingRevenueStatus, adjustedAmount *int64, note, approvedBy string) (bool, error) {
	if m.DecideError != nil {
		return false, m.DecideError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.rows[id]
	if !ok || pr.Status != model.PendingRevenuePending {
		return false, nil
	}
	pr.Status = status
	pr.AdjustedAmount = adjustedAmount
	pr.AdjustmentNote = note
	pr.ApprovedBy = approvedBy
	return true, nil
}

type mockWalletRepo struct {
	repository.WalletRepository // Embed interface
	mu                          sync.Mutex
	settled                     []struct{ Release, Credit int64 }
	SettleError                 error
}

func (m *mockWalletRepo) SettlePending(ctx context.Context, tx repository.Tx, walletID string, release, credit int64) error {
	if m.SettleError != nil {
		return m.SettleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settled = append(m.settled, struct{ Release, Credit int64 }{release, credit})
	return nil
}

func (m *mockWalletRepo) SaveTransaction(ctx context.Context, tx repository.Tx, wt *model.WalletTransaction) error {
	return nil
}

type mockUserRepo struct {
	repository.UserRepository // Embed interface
	mu                        sync.Mutex
	roles                     map[string]model.UserRole
	UpdateRoleError           error
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, tx repository.Tx, id string, role model.UserRole) error {
	if m.UpdateRoleError != nil {
		return m.UpdateRoleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roles == nil {
		m.roles = map[string]model.UserRole{}
	}
	m.roles[id] = role
	return nil
}
