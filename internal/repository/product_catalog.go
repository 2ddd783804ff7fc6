package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 商品カタログ（読み取り専用の外部データソース）。
// リトライやキャッシュはこの層では持たない。
type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	// 無ければ ErrNotFound
	FindByID(ctx context.Context, id string) (model.Product, error)
}
