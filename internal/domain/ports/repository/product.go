package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"eksporyuk-platform/internal/domain/model"
)

type ProductRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Product) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	FindBySlug(ctx context.Context, tx Tx, slug string) (*model.Product, error)
	UpdateCommission(ctx context.Context, tx Tx, id string, typ model.CommissionType, rate decimal.Decimal) error
	SaveUserProduct(ctx context.Context, tx Tx, up *model.UserProduct) error
}
