//go:build !integration

package usecase_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/adapter"
	"eksporyuk-platform/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// MockTxManager runs the callback inline with a nil handle; the mocks ignore
// the tx parameter entirely.
type MockTxManager struct{}

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

type MockUserRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.User
	saveErr error
}

func NewMockUserRepo() *MockUserRepo { return &MockUserRepo{store: map[string]*model.User{}} }

func (m *MockUserRepo) Save(ctx context.Context, _ repository.Tx, u *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.store {
		if ex.Email == u.Email && ex.ID != u.ID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, _ repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepo) UpdateRole(ctx context.Context, _ repository.Tx, id string, role model.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *MockUserRepo) ListPremiumWithoutActiveMembership(ctx context.Context, _ repository.Tx, limit int) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.User
	for _, u := range m.store {
		if u.Role == model.RoleMemberPremium {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type MockMembershipRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Membership
}

func NewMockMembershipRepo() *MockMembershipRepo {
	return &MockMembershipRepo{store: map[string]*model.Membership{}}
}

func (m *MockMembershipRepo) Save(ctx context.Context, _ repository.Tx, p *model.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockMembershipRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockMembershipRepo) FindBySlug(ctx context.Context, _ repository.Tx, slug string) (*model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockMembershipRepo) ListActive(ctx context.Context, _ repository.Tx) ([]*model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Membership
	for _, p := range m.store {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockMembershipRepo) UpdateCommission(ctx context.Context, _ repository.Tx, id string, typ model.CommissionType, rate decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CommissionType = typ
	p.AffiliateCommissionRate = rate
	return nil
}

func (m *MockMembershipRepo) Delete(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type MockUserMembershipRepo struct {
	mu    sync.RWMutex
	store map[string]*model.UserMembership
}

func NewMockUserMembershipRepo() *MockUserMembershipRepo {
	return &MockUserMembershipRepo{store: map[string]*model.UserMembership{}}
}

func (m *MockUserMembershipRepo) Save(ctx context.Context, _ repository.Tx, um *model.UserMembership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *um
	m.store[um.ID] = &cp
	return nil
}

func (m *MockUserMembershipRepo) FindActiveByUser(ctx context.Context, _ repository.Tx, userID string) (*model.UserMembership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, um := range m.store {
		if um.UserID == userID && um.Status == model.UserMembershipActive {
			cp := *um
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserMembershipRepo) ExpireActiveByUser(ctx context.Context, _ repository.Tx, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, um := range m.store {
		if um.UserID == userID && um.Status == model.UserMembershipActive {
			um.Status = model.UserMembershipExpired
			n++
		}
	}
	return n, nil
}

func (m *MockUserMembershipRepo) ExpireDue(ctx context.Context, _ repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, um := range m.store {
		if um.Status == model.UserMembershipActive && !now.Before(um.EndDate) {
			um.Status = model.UserMembershipExpired
			n++
		}
	}
	return n, nil
}

func (m *MockUserMembershipRepo) CountActiveByMembership(ctx context.Context, _ repository.Tx) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]int{}
	for _, um := range m.store {
		if um.Status == model.UserMembershipActive {
			out[um.MembershipID]++
		}
	}
	return out, nil
}

type MockCourseRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Course
}

func NewMockCourseRepo() *MockCourseRepo { return &MockCourseRepo{store: map[string]*model.Course{}} }

func (m *MockCourseRepo) Save(ctx context.Context, _ repository.Tx, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *MockCourseRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCourseRepo) FindBySlug(ctx context.Context, _ repository.Tx, slug string) (*model.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCourseRepo) ListByIDs(ctx context.Context, _ repository.Tx, ids []string) ([]*model.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Course
	for _, id := range ids {
		if c, ok := m.store[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type MockEnrollmentRepo struct {
	mu    sync.RWMutex
	store map[string]*model.CourseEnrollment // keyed user|course
}

func NewMockEnrollmentRepo() *MockEnrollmentRepo {
	return &MockEnrollmentRepo{store: map[string]*model.CourseEnrollment{}}
}

func enrollKey(userID, courseID string) string { return userID + "|" + courseID }

func (m *MockEnrollmentRepo) Grant(ctx context.Context, _ repository.Tx, userID, courseID string, expiresAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := enrollKey(userID, courseID)
	if e, ok := m.store[key]; ok {
		e.HasAccess = true
		e.AccessExpiresAt = expiresAt
		return nil
	}
	m.store[key] = &model.CourseEnrollment{
		ID:              key,
		UserID:          userID,
		CourseID:        courseID,
		HasAccess:       true,
		AccessGrantedAt: time.Now(),
		AccessExpiresAt: expiresAt,
	}
	return nil
}

func (m *MockEnrollmentRepo) Find(ctx context.Context, _ repository.Tx, userID, courseID string) (*model.CourseEnrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[enrollKey(userID, courseID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MockEnrollmentRepo) ListByUser(ctx context.Context, _ repository.Tx, userID string) ([]*model.CourseEnrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.CourseEnrollment
	for _, e := range m.store {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockEnrollmentRepo) LockExpired(ctx context.Context, _ repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.store {
		if e.HasAccess && e.AccessExpiresAt != nil && now.After(*e.AccessExpiresAt) {
			e.HasAccess = false
			n++
		}
	}
	return n, nil
}

type MockProductRepo struct {
	mu        sync.RWMutex
	store     map[string]*model.Product
	delivered map[string]*model.UserProduct
}

func NewMockProductRepo() *MockProductRepo {
	return &MockProductRepo{store: map[string]*model.Product{}, delivered: map[string]*model.UserProduct{}}
}

func (m *MockProductRepo) Save(ctx context.Context, _ repository.Tx, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MockProductRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductRepo) FindBySlug(ctx context.Context, _ repository.Tx, slug string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockProductRepo) UpdateCommission(ctx context.Context, _ repository.Tx, id string, typ model.CommissionType, rate decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CommissionType = typ
	p.AffiliateCommissionRate = rate
	return nil
}

func (m *MockProductRepo) SaveUserProduct(ctx context.Context, _ repository.Tx, up *model.UserProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *up
	m.delivered[up.ID] = &cp
	return nil
}

type MockTransactionRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Transaction
}

func NewMockTransactionRepo() *MockTransactionRepo {
	return &MockTransactionRepo{store: map[string]*model.Transaction{}}
}

func (m *MockTransactionRepo) Save(ctx context.Context, _ repository.Tx, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *MockTransactionRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTransactionRepo) FindByExternalID(ctx context.Context, _ repository.Tx, externalID string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.store {
		if t.ExternalID == externalID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockTransactionRepo) UpdateStatusIfPending(ctx context.Context, _ repository.Tx, id string, status model.TransactionStatus, paidAt *time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if t.Status != model.TransactionPending {
		return false, nil
	}
	t.Status = status
	t.PaidAt = paidAt
	t.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockTransactionRepo) SetCommissionBreakdown(ctx context.Context, _ repository.Tx, id string, affiliate, admin, founder, cofounder int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.AffiliateShare = affiliate
	t.AdminFee = admin
	t.FounderShare = founder
	t.CofounderShare = cofounder
	return nil
}

func (m *MockTransactionRepo) ListPendingOlderThan(ctx context.Context, _ repository.Tx, olderThan time.Time, limit int) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.Status == model.TransactionPending && t.CreatedAt.Before(olderThan) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTransactionRepo) ListPendingCreatedBetween(ctx context.Context, _ repository.Tx, from, to time.Time, limit int) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Transaction
	for _, t := range m.store {
		if t.Status == model.TransactionPending && t.CreatedAt.After(from) && t.CreatedAt.Before(to) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTransactionRepo) SumByPeriod(ctx context.Context, _ repository.Tx, period string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, t := range m.store {
		if t.Status == model.TransactionSuccess {
			sum += t.Amount
		}
	}
	return sum, nil
}

type MockCouponRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Coupon
}

func NewMockCouponRepo() *MockCouponRepo { return &MockCouponRepo{store: map[string]*model.Coupon{}} }

func (m *MockCouponRepo) Save(ctx context.Context, _ repository.Tx, c *model.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *MockCouponRepo) FindByCode(ctx context.Context, _ repository.Tx, code string) (*model.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if strings.EqualFold(c.Code, code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCouponRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCouponRepo) ListAll(ctx context.Context, _ repository.Tx) ([]*model.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Coupon
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCouponRepo) IncrementUse(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.UsedCount++
	return nil
}

func (m *MockCouponRepo) Delete(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type MockAffiliateRepo struct {
	mu          sync.RWMutex
	profiles    map[string]*model.AffiliateProfile
	conversions map[string]*model.AffiliateConversion // keyed by transaction id
	clicks      []*model.AffiliateClick
}

func NewMockAffiliateRepo() *MockAffiliateRepo {
	return &MockAffiliateRepo{
		profiles:    map[string]*model.AffiliateProfile{},
		conversions: map[string]*model.AffiliateConversion{},
	}
}

func (m *MockAffiliateRepo) SaveProfile(ctx context.Context, _ repository.Tx, p *model.AffiliateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.profiles[p.ID] = &cp
	return nil
}

func (m *MockAffiliateRepo) FindProfileByID(ctx context.Context, _ repository.Tx, id string) (*model.AffiliateProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockAffiliateRepo) FindProfileByUser(ctx context.Context, _ repository.Tx, userID string) (*model.AffiliateProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockAffiliateRepo) FindProfileByCode(ctx context.Context, _ repository.Tx, code string) (*model.AffiliateProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profiles {
		if p.AffiliateCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockAffiliateRepo) AddConversionStats(ctx context.Context, _ repository.Tx, id string, earnings, conversions int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.TotalEarnings += earnings
	p.TotalConversions += conversions
	return nil
}

func (m *MockAffiliateRepo) AddClick(ctx context.Context, _ repository.Tx, click *model.AffiliateClick) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *click
	m.clicks = append(m.clicks, &cp)
	if p, ok := m.profiles[click.AffiliateID]; ok {
		p.TotalClicks++
	}
	return nil
}

func (m *MockAffiliateRepo) SaveConversion(ctx context.Context, _ repository.Tx, c *model.AffiliateConversion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversions[c.TransactionID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *c
	m.conversions[c.TransactionID] = &cp
	return nil
}

func (m *MockAffiliateRepo) ListConversions(ctx context.Context, _ repository.Tx, affiliateID string, limit int) ([]*model.AffiliateConversion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AffiliateConversion
	for _, c := range m.conversions {
		if c.AffiliateID == affiliateID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockAffiliateRepo) TopByEarnings(ctx context.Context, _ repository.Tx, limit int) ([]*model.AffiliateProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AffiliateProfile
	for _, p := range m.profiles {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type MockChallengeRepo struct {
	mu         sync.RWMutex
	challenges map[string]*model.Challenge
	progress   map[string]*model.ChallengeProgress
}

func NewMockChallengeRepo() *MockChallengeRepo {
	return &MockChallengeRepo{challenges: map[string]*model.Challenge{}, progress: map[string]*model.ChallengeProgress{}}
}

func (m *MockChallengeRepo) Save(ctx context.Context, _ repository.Tx, c *model.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.challenges[c.ID] = &cp
	return nil
}

func (m *MockChallengeRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.challenges[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockChallengeRepo) ListOpen(ctx context.Context, _ repository.Tx, at time.Time) ([]*model.Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Challenge
	for _, c := range m.challenges {
		if c.Open(at) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockChallengeRepo) Delete(ctx context.Context, _ repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.challenges, id)
	return nil
}

func (m *MockChallengeRepo) SaveProgress(ctx context.Context, _ repository.Tx, p *model.ChallengeProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.progress {
		if ex.ChallengeID == p.ChallengeID && ex.AffiliateID == p.AffiliateID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *p
	m.progress[p.ID] = &cp
	return nil
}

func (m *MockChallengeRepo) FindProgress(ctx context.Context, _ repository.Tx, challengeID, affiliateID string) (*model.ChallengeProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.progress {
		if p.ChallengeID == challengeID && p.AffiliateID == affiliateID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockChallengeRepo) ListProgressByAffiliate(ctx context.Context, _ repository.Tx, affiliateID string) ([]*model.ChallengeProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ChallengeProgress
	for _, p := range m.progress {
		if p.AffiliateID == affiliateID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockChallengeRepo) IncrementProgress(ctx context.Context, _ repository.Tx, progressID string, delta int64) (repository.IncrementResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.progress[progressID]
	if !ok {
		return repository.IncrementResult{}, domain.ErrNotFound
	}
	res := repository.IncrementResult{Before: p.CurrentValue, Target: p.TargetValue}
	p.CurrentValue += delta
	res.After = p.CurrentValue
	if !p.Completed && p.CurrentValue >= p.TargetValue {
		p.Completed = true
		now := time.Now()
		p.CompletedAt = &now
		res.JustComplete = true
	}
	return res, nil
}

type MockWalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]*model.Wallet // keyed by user id
	txns    []*model.WalletTransaction
	payouts []*model.Payout
}

func NewMockWalletRepo() *MockWalletRepo { return &MockWalletRepo{wallets: map[string]*model.Wallet{}} }

func (m *MockWalletRepo) walletFor(userID string) *model.Wallet {
	w, ok := m.wallets[userID]
	if !ok {
		w = &model.Wallet{ID: "wallet-" + userID, UserID: userID, CreatedAt: time.Now()}
		m.wallets[userID] = w
	}
	return w
}

func (m *MockWalletRepo) CreditBalance(ctx context.Context, _ repository.Tx, userID string, amount int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.walletFor(userID)
	w.Balance += amount
	w.TotalEarnings += amount
	return w.ID, nil
}

func (m *MockWalletRepo) CreditPending(ctx context.Context, _ repository.Tx, userID string, amount int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.walletFor(userID)
	w.BalancePending += amount
	return w.ID, nil
}

func (m *MockWalletRepo) SettlePending(ctx context.Context, _ repository.Tx, walletID string, release, credit int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.ID == walletID {
			w.BalancePending -= release
			w.Balance += credit
			w.TotalEarnings += credit
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockWalletRepo) FindByUser(ctx context.Context, _ repository.Tx, userID string) (*model.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *MockWalletRepo) SaveTransaction(ctx context.Context, _ repository.Tx, wt *model.WalletTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *wt
	m.txns = append(m.txns, &cp)
	return nil
}

func (m *MockWalletRepo) ListTransactions(ctx context.Context, _ repository.Tx, walletID string, limit int) ([]*model.WalletTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.WalletTransaction
	for _, wt := range m.txns {
		if wt.WalletID == walletID {
			cp := *wt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockWalletRepo) SavePayout(ctx context.Context, _ repository.Tx, p *model.Payout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payouts = append(m.payouts, &cp)
	return nil
}

func (m *MockWalletRepo) DebitBalance(ctx context.Context, _ repository.Tx, walletID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.ID == walletID {
			if w.Balance < amount {
				return domain.ErrInsufficientBalance
			}
			w.Balance -= amount
			w.TotalPayout += amount
			return nil
		}
	}
	return domain.ErrNotFound
}

type MockPendingRevenueRepo struct {
	mu    sync.RWMutex
	store map[string]*model.PendingRevenue
}

func NewMockPendingRevenueRepo() *MockPendingRevenueRepo {
	return &MockPendingRevenueRepo{store: map[string]*model.PendingRevenue{}}
}

func (m *MockPendingRevenueRepo) Save(ctx context.Context, _ repository.Tx, pr *model.PendingRevenue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pr
	m.store[pr.ID] = &cp
	return nil
}

func (m *MockPendingRevenueRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.PendingRevenue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pr, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (m *MockPendingRevenueRepo) ListPending(ctx context.Context, _ repository.Tx, limit int) ([]*model.PendingRevenue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.PendingRevenue
	for _, pr := range m.store {
		if pr.Status == model.PendingRevenuePending {
			cp := *pr
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPendingRevenueRepo) Decide(ctx context.Context, _ repository.Tx, id string, status model.PendingRevenueStatus, adjustedAmount *int64, note, approvedBy string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if pr.Status != model.PendingRevenuePending {
		return false, nil
	}
	pr.Status = status
	pr.AdjustedAmount = adjustedAmount
	pr.AdjustmentNote = note
	pr.ApprovedBy = approvedBy
	now := time.Now()
	pr.ApprovedAt = &now
	return true, nil
}

type MockFeatureRepo struct {
	mu    sync.RWMutex
	store map[string]*model.PlatformFeature
}

func NewMockFeatureRepo() *MockFeatureRepo {
	return &MockFeatureRepo{store: map[string]*model.PlatformFeature{}}
}

func (m *MockFeatureRepo) Save(ctx context.Context, _ repository.Tx, f *model.PlatformFeature) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.store[f.Key] = &cp
	return nil
}

func (m *MockFeatureRepo) FindByKey(ctx context.Context, _ repository.Tx, key string) (*model.PlatformFeature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.store[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *MockFeatureRepo) ListAll(ctx context.Context, _ repository.Tx) ([]*model.PlatformFeature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.PlatformFeature
	for _, f := range m.store {
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

type MockNotificationLogRepo struct {
	mu      sync.Mutex
	entries []*model.NotificationLog
}

func (m *MockNotificationLogRepo) Save(ctx context.Context, _ repository.Tx, l *model.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MockNotificationLogRepo) ListByUser(ctx context.Context, _ repository.Tx, userID string, limit int) ([]*model.NotificationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.NotificationLog
	for _, l := range m.entries {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// MockPaymentGateway issues deterministic invoice references.
type MockPaymentGateway struct {
	mu      sync.Mutex
	counter int
	fail    error
}

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateInvoice(ctx context.Context, txn *model.Transaction, payerEmail, description string) (*adapter.Invoice, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return &adapter.Invoice{
		ExternalID: "ext-" + txn.ID,
		PayURL:     "https://pay.example/inv-" + txn.ID,
		Channel:    txn.PaymentChannel,
	}, nil
}

// inlinePool runs submitted tasks synchronously so tests can assert on side
// effects immediately.
type inlinePool struct{}

func (inlinePool) Submit(task func(ctx context.Context) error) error {
	return task(context.Background())
}

// recordingNotifier captures sends per channel.
type recordingNotifier struct {
	channel model.NotificationChannel
	mu      sync.Mutex
	sent    []*model.Notification
}

func (r *recordingNotifier) Channel() model.NotificationChannel { return r.channel }

func (r *recordingNotifier) Send(ctx context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.sent = append(r.sent, &cp)
	return nil
}
