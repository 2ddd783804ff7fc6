package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mocks
// =====================

type CartStorageMock struct{ mock.Mock }

func (m *CartStorageMock) Load(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	args := m.Called(ctx, sessionID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartStorageMock) Save(ctx context.Context, sessionID string, items []model.CartItem) error {
	args := m.Called(ctx, sessionID, items)
	return args.Error(0)
}

type CatalogMock struct{ mock.Mock }

func (m *CatalogMock) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), substr)
}

func product(id string, price string) model.Product {
	return model.Product{
		ID:    id,
		Name:  "item " + id,
		Price: decimal.RequireFromString(price),
		Stock: 10,
	}
}

func newCartUsecase(t *testing.T) (*usecase.CartUsecase, *CartStorageMock, *CatalogMock) {
	t.Helper()
	storage := new(CartStorageMock)
	catalog := new(CatalogMock)
	return usecase.NewCartUsecase(storage, catalog), storage, catalog
}

// =====================
// AddToCart
// =====================

func TestCartUsecase_AddToCart_Success(t *testing.T) {
	ctx := context.Background()
	uc, storage, catalog := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()
	catalog.On("FindByID", mock.Anything, "p1").Return(product("p1", "25.99"), nil)
	storage.On("Save", mock.Anything, "s1", mock.Anything).Return(nil)

	out, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.Equal(t, "51.98", out.Total.StringFixed(2))
	assert.Equal(t, int64(2), out.ItemCount)
	storage.AssertCalled(t, "Save", mock.Anything, "s1", mock.Anything)
}

func TestCartUsecase_AddToCart_AggregatesAcrossCalls(t *testing.T) {
	ctx := context.Background()
	uc, storage, catalog := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()
	catalog.On("FindByID", mock.Anything, "p1").Return(product("p1", "25.99"), nil)
	storage.On("Save", mock.Anything, "s1", mock.Anything).Return(nil)

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	out, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	// 同一商品は1明細に集約される
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.Equal(t, "51.98", out.Total.StringFixed(2))

	// 書き戻しは毎回の変更後（write-through）
	storage.AssertNumberOfCalls(t, "Save", 2)
}

func TestCartUsecase_AddToCart_ClampsQuantity(t *testing.T) {
	ctx := context.Background()
	uc, storage, catalog := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()
	catalog.On("FindByID", mock.Anything, "p1").Return(product("p1", "10.00"), nil)
	storage.On("Save", mock.Anything, "s1", mock.Anything).Return(nil)

	out, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "p1", Quantity: -2})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), out.Items[0].Quantity)
}

func TestCartUsecase_AddToCart_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	uc, _, catalog := newCartUsecase(t)

	catalog.On("FindByID", mock.Anything, "ghost").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "ghost", Quantity: 1})
	assertErrContains(t, err, "invalid product_id")
}

func TestCartUsecase_AddToCart_CatalogDown(t *testing.T) {
	ctx := context.Background()
	uc, _, catalog := newCartUsecase(t)

	catalog.On("FindByID", mock.Anything, "p1").Return(model.Product{}, errors.New("boom"))

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "p1", Quantity: 1})
	assertErrContains(t, err, "catalog unavailable")
}

func TestCartUsecase_AddToCart_SaveFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	uc, storage, catalog := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()
	catalog.On("FindByID", mock.Anything, "p1").Return(product("p1", "25.99"), nil)
	storage.On("Save", mock.Anything, "s1", mock.Anything).Return(errors.New("quota exceeded"))

	out, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	// 書き戻しに失敗してもメモリ上のカートが正のまま
	got, err := uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "25.99", got.Total.StringFixed(2))
}

// =====================
// GetCart / 復元
// =====================

func TestCartUsecase_GetCart_NoSavedCartIsEmpty(t *testing.T) {
	ctx := context.Background()
	uc, storage, _ := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()

	out, err := uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, "0.00", out.Total.StringFixed(2))
}

func TestCartUsecase_GetCart_StorageErrorFallsBackEmpty(t *testing.T) {
	ctx := context.Background()
	uc, storage, _ := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, errors.New("connection refused")).Once()

	out, err := uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestCartUsecase_GetCart_RehydratesFromStorage(t *testing.T) {
	ctx := context.Background()
	uc, storage, _ := newCartUsecase(t)

	saved := []model.CartItem{
		{ProductID: "p1", Name: "item p1", UnitPrice: decimal.RequireFromString("25.99"), Quantity: 2},
	}
	storage.On("Load", mock.Anything, "s1").Return(saved, nil).Once()

	out, err := uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.Equal(t, "51.98", out.Total.StringFixed(2))

	// 2回目はメモリから（Loadは1回だけ）
	_, err = uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	storage.AssertNumberOfCalls(t, "Load", 1)
}

// =====================
// UpdateItem / RemoveItem / ClearCart
// =====================

func TestCartUsecase_UpdateItem_ZeroRemoves(t *testing.T) {
	ctx := context.Background()
	uc, storage, catalog := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()
	catalog.On("FindByID", mock.Anything, "p1").Return(product("p1", "25.99"), nil)
	storage.On("Save", mock.Anything, "s1", mock.Anything).Return(nil)

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	out, err := uc.UpdateItem(ctx, "s1", "p1", usecase.UpdateCartItemInput{Quantity: 0})
	require.NoError(t, err)

	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.ItemCount)
	assert.Equal(t, "0.00", out.Total.StringFixed(2))
}

func TestCartUsecase_UpdateItem_AbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	uc, storage, _ := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()
	storage.On("Save", mock.Anything, "s1", mock.Anything).Return(nil)

	out, err := uc.UpdateItem(ctx, "s1", "ghost", usecase.UpdateCartItemInput{Quantity: 4})
	require.NoError(t, err)

	// 暗黙の作成はしない
	assert.Empty(t, out.Items)
}

func TestCartUsecase_RemoveItem_AbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	uc, storage, _ := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()
	storage.On("Save", mock.Anything, "s1", mock.Anything).Return(nil)

	out, err := uc.RemoveItem(ctx, "s1", "ghost")
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestCartUsecase_ClearCart_PersistsEmptyList(t *testing.T) {
	ctx := context.Background()
	uc, storage, catalog := newCartUsecase(t)

	storage.On("Load", mock.Anything, "s1").Return(nil, repo.ErrNotFound).Once()
	catalog.On("FindByID", mock.Anything, "p1").Return(product("p1", "25.99"), nil)
	storage.On("Save", mock.Anything, "s1", mock.Anything).Return(nil)

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	out, err := uc.ClearCart(ctx, "s1")
	require.NoError(t, err)

	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.ItemCount)

	// 空のリストが書き戻される
	storage.AssertCalled(t, "Save", mock.Anything, "s1", mock.MatchedBy(func(items []model.CartItem) bool {
		return len(items) == 0
	}))
}

func TestCartUsecase_MissingSession(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCartUsecase(t)

	_, err := uc.GetCart(ctx, "")
	assertErrContains(t, err, "unauthorized")
}
