package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	// Revenue sums SUCCESS transaction amounts per calendar period.
	Revenue(ctx context.Context) (week int64, month int64, year int64, err error)
	ActiveMemberships(ctx context.Context) (map[string]int, error)
	TopAffiliates(ctx context.Context, limit int) ([]*model.AffiliateProfile, error)
	PendingRevenueQueue(ctx context.Context, limit int) ([]*model.PendingRevenue, error)
}

type statsUC struct {
	transactions repository.TransactionRepository
	grants       repository.UserMembershipRepository
	affiliates   repository.AffiliateRepository
	pending      repository.PendingRevenueRepository
	log          *zerolog.Logger
}

func NewStatsUseCase(transactions repository.TransactionRepository, grants repository.UserMembershipRepository, affiliates repository.AffiliateRepository, pending repository.PendingRevenueRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{transactions: transactions, grants: grants, affiliates: affiliates, pending: pending, log: logger}
}

func (s *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	w, err := s.transactions.SumByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := s.transactions.SumByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := s.transactions.SumByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return w, m, y, nil
}

func (s *statsUC) ActiveMemberships(ctx context.Context) (map[string]int, error) {
	return s.grants.CountActiveByMembership(ctx, repository.NoTX)
}

func (s *statsUC) TopAffiliates(ctx context.Context, limit int) ([]*model.AffiliateProfile, error) {
	return s.affiliates.TopByEarnings(ctx, repository.NoTX, limit)
}

func (s *statsUC) PendingRevenueQueue(ctx context.Context, limit int) ([]*model.PendingRevenue, error) {
	return s.pending.ListPending(ctx, repository.NoTX, limit)
}
