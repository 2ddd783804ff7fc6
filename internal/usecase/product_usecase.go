package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// ProductUsecase は /products の業務ロジックです。
// カタログは外部の読み取り専用データソース。キャッシュはこの層では持たない。
type ProductUsecase struct {
	catalog repo.ProductCatalog
}

func NewProductUsecase(catalog repo.ProductCatalog) *ProductUsecase {
	return &ProductUsecase{catalog: catalog}
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context) (ProductListOutput, error) {
	items, err := u.catalog.ListProducts(ctx)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusBadGateway, "catalog unavailable")
	}

	return ProductListOutput{
		Items: items,
		Total: len(items),
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string) (model.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalog.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadGateway, "catalog unavailable")
	}

	return p, nil
}
