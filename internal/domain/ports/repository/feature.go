package repository

import (
	"context"

	"eksporyuk-platform/internal/domain/model"
)

type FeatureRepository interface {
	Save(ctx context.Context, tx Tx, f *model.PlatformFeature) error
	FindByKey(ctx context.Context, tx Tx, key string) (*model.PlatformFeature, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.PlatformFeature, error)
}
