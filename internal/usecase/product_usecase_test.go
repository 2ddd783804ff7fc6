package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductUsecase_ListProducts_Success(t *testing.T) {
	ctx := context.Background()
	catalog := new(CatalogMock)
	uc := usecase.NewProductUsecase(catalog)

	items := []model.Product{product("p1", "25.99"), product("p2", "3.25")}
	catalog.On("ListProducts", mock.Anything).Return(items, nil)

	out, err := uc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
	assert.Len(t, out.Items, 2)
}

func TestProductUsecase_ListProducts_CatalogDown(t *testing.T) {
	ctx := context.Background()
	catalog := new(CatalogMock)
	uc := usecase.NewProductUsecase(catalog)

	catalog.On("ListProducts", mock.Anything).Return(nil, errors.New("boom"))

	_, err := uc.ListProducts(ctx)
	assertErrContains(t, err, "catalog unavailable")
}

func TestProductUsecase_GetProductDetail_NotFound(t *testing.T) {
	ctx := context.Background()
	catalog := new(CatalogMock)
	uc := usecase.NewProductUsecase(catalog)

	catalog.On("FindByID", mock.Anything, "ghost").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductDetail(ctx, "ghost")
	assertErrContains(t, err, "not found")
}

func TestProductUsecase_GetProductDetail_InvalidID(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUsecase(new(CatalogMock))

	_, err := uc.GetProductDetail(ctx, "   ")
	assertErrContains(t, err, "invalid product id")
}

func TestProductUsecase_GetProductDetail_Success(t *testing.T) {
	ctx := context.Background()
	catalog := new(CatalogMock)
	uc := usecase.NewProductUsecase(catalog)

	catalog.On("FindByID", mock.Anything, "p1").Return(product("p1", "25.99"), nil)

	p, err := uc.GetProductDetail(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}
