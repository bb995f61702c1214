package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain"
	"eksporyuk-platform/internal/domain/model"
	"eksporyuk-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

// CatalogUseCase covers the admin CRUD surface for sellable items and
// platform feature flags.
type CatalogUseCase interface {
	SaveMembership(ctx context.Context, m *model.Membership) error
	ListMemberships(ctx context.Context) ([]*model.Membership, error)
	DeleteMembership(ctx context.Context, id string) error
	// SetMembershipCommission changes how affiliate commission is computed
	// for a plan. Only future sales are affected.
	SetMembershipCommission(ctx context.Context, id string, typ model.CommissionType, rate decimal.Decimal) error

	SaveProduct(ctx context.Context, p *model.Product) error
	SetProductCommission(ctx context.Context, id string, typ model.CommissionType, rate decimal.Decimal) error

	SaveCourse(ctx context.Context, c *model.Course) error

	SetFeature(ctx context.Context, key string, enabled bool, value string) error
	ListFeatures(ctx context.Context) ([]*model.PlatformFeature, error)
}

type catalogUC struct {
	memberships repository.MembershipRepository
	products    repository.ProductRepository
	courses     repository.CourseRepository
	features    repository.FeatureRepository
	log         *zerolog.Logger
}

func NewCatalogUseCase(memberships repository.MembershipRepository, products repository.ProductRepository, courses repository.CourseRepository, features repository.FeatureRepository, logger *zerolog.Logger) *catalogUC {
	return &catalogUC{memberships: memberships, products: products, courses: courses, features: features, log: logger}
}

func validCommission(typ model.CommissionType, rate decimal.Decimal) bool {
	if rate.IsNegative() {
		return false
	}
	if typ == model.CommissionPercentage && rate.GreaterThan(decimal.NewFromInt(100)) {
		return false
	}
	return typ == model.CommissionPercentage || typ == model.CommissionFlat
}

func (u *catalogUC) SaveMembership(ctx context.Context, m *model.Membership) error {
	if m.Name == "" || m.Price < 0 {
		return domain.ErrInvalidArgument
	}
	if !validCommission(m.CommissionType, m.AffiliateCommissionRate) {
		return domain.ErrInvalidArgument
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return u.memberships.Save(ctx, repository.NoTX, m)
}

func (u *catalogUC) ListMemberships(ctx context.Context) ([]*model.Membership, error) {
	return u.memberships.ListActive(ctx, repository.NoTX)
}

func (u *catalogUC) DeleteMembership(ctx context.Context, id string) error {
	return u.memberships.Delete(ctx, repository.NoTX, id)
}

func (u *catalogUC) SetMembershipCommission(ctx context.Context, id string, typ model.CommissionType, rate decimal.Decimal) error {
	if !validCommission(typ, rate) {
		return domain.ErrInvalidArgument
	}
	if err := u.memberships.UpdateCommission(ctx, repository.NoTX, id, typ, rate); err != nil {
		return err
	}
	u.log.Info().Str("membership_id", id).Str("type", string(typ)).Str("rate", rate.String()).Msg("membership commission updated")
	return nil
}

func (u *catalogUC) SaveProduct(ctx context.Context, p *model.Product) error {
	if p.Name == "" || p.Price < 0 {
		return domain.ErrInvalidArgument
	}
	if !validCommission(p.CommissionType, p.AffiliateCommissionRate) {
		return domain.ErrInvalidArgument
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return u.products.Save(ctx, repository.NoTX, p)
}

func (u *catalogUC) SetProductCommission(ctx context.Context, id string, typ model.CommissionType, rate decimal.Decimal) error {
	if !validCommission(typ, rate) {
		return domain.ErrInvalidArgument
	}
	if err := u.products.UpdateCommission(ctx, repository.NoTX, id, typ, rate); err != nil {
		return err
	}
	u.log.Info().Str("product_id", id).Str("type", string(typ)).Str("rate", rate.String()).Msg("product commission updated")
	return nil
}

func (u *catalogUC) SaveCourse(ctx context.Context, c *model.Course) error {
	if c.Title == "" || c.Price < 0 {
		return domain.ErrInvalidArgument
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = model.CourseDraft
	}
	if c.RoleAccess == "" {
		c.RoleAccess = model.CourseAccessPublic
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return u.courses.Save(ctx, repository.NoTX, c)
}

func (u *catalogUC) SetFeature(ctx context.Context, key string, enabled bool, value string) error {
	if key == "" {
		return domain.ErrInvalidArgument
	}
	return u.features.Save(ctx, repository.NoTX, &model.PlatformFeature{
		Key:       key,
		Enabled:   enabled,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}

func (u *catalogUC) ListFeatures(ctx context.Context) ([]*model.PlatformFeature, error) {
	return u.features.ListAll(ctx, repository.NoTX)
}
