package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// メモリ上のカートが正で、変更のたびにストレージへ全量を書き戻す（write-through）。
// 書き戻しの失敗は致命扱いにしない（セッション中はメモリが正のまま）。
type CartUsecase struct {
	storage repo.CartStorage
	catalog repo.ProductCatalog

	// 変更は1件ずつ適用する
	mu    sync.Mutex
	carts map[string]*model.Cart
}

func NewCartUsecase(storage repo.CartStorage, catalog repo.ProductCatalog) *CartUsecase {
	return &CartUsecase{
		storage: storage,
		catalog: catalog,
		carts:   make(map[string]*model.Cart),
	}
}

type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	InStock   bool            `json:"in_stock"`
	Quantity  int64           `json:"quantity"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int64              `json:"item_count"`
}

type AddCartInput struct {
	ProductID string
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// GetCart はカート取得（保存が無ければ空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	cart := u.cart(ctx, sessionID)
	return toCartResponse(cart), nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// スナップショット（名前・価格・画像・在庫有無）は追加時点のカタログから取る。
func (u *CartUsecase) AddToCart(ctx context.Context, sessionID string, in AddCartInput) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.catalog.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusBadGateway, "catalog unavailable")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	cart := u.cart(ctx, sessionID)

	// 数量は1未満なら1に丸める（エラーにはしない）
	cart.Add(model.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		InStock:   p.InStock(),
	}, in.Quantity)

	u.persist(ctx, sessionID, cart)
	return toCartResponse(cart), nil
}

// UpdateItem は数量変更。0以下は削除扱い、存在しない商品は何もしない。
func (u *CartUsecase) UpdateItem(ctx context.Context, sessionID string, productID string, in UpdateCartItemInput) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	cart := u.cart(ctx, sessionID)
	cart.SetQuantity(productID, in.Quantity)

	u.persist(ctx, sessionID, cart)
	return toCartResponse(cart), nil
}

// RemoveItem は明細削除。無ければ何もしない。
func (u *CartUsecase) RemoveItem(ctx context.Context, sessionID string, productID string) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	cart := u.cart(ctx, sessionID)
	cart.Remove(productID)

	u.persist(ctx, sessionID, cart)
	return toCartResponse(cart), nil
}

// ClearCart は全明細を削除して空のリストを書き戻す。
func (u *CartUsecase) ClearCart(ctx context.Context, sessionID string) (CartResponse, error) {
	if sessionID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	cart := u.cart(ctx, sessionID)
	cart.Clear()

	u.persist(ctx, sessionID, cart)
	return toCartResponse(cart), nil
}

// Total はチェックアウト時点の合計（小数2桁）を返す。
func (u *CartUsecase) Total(ctx context.Context, sessionID string) decimal.Decimal {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.cart(ctx, sessionID).Total()
}

// cart はメモリ→ストレージの順でカートを用意する。
// 保存が無い・壊れている場合は空カート（エラーにしない）。
// 呼び出し側で mu を握っていること。
func (u *CartUsecase) cart(ctx context.Context, sessionID string) *model.Cart {
	if c, ok := u.carts[sessionID]; ok {
		return c
	}

	items, err := u.storage.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			slog.Warn("cart load failed, starting empty", "session_id", sessionID, "error", err)
		}
		items = nil
	}

	c := model.NewCart(items)
	u.carts[sessionID] = c
	return c
}

// persist は現在の明細を書き戻す。失敗してもメモリ側は正のまま。
func (u *CartUsecase) persist(ctx context.Context, sessionID string, cart *model.Cart) {
	if err := u.storage.Save(ctx, sessionID, cart.Items()); err != nil {
		slog.Warn("cart save failed", "session_id", sessionID, "error", err)
	}
}

func toCartResponse(cart *model.Cart) CartResponse {
	items := cart.Items()
	respItems := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		respItems = append(respItems, CartItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			ImageURL:  it.ImageURL,
			InStock:   it.InStock,
			Quantity:  it.Quantity,
		})
	}

	return CartResponse{
		Items:     respItems,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
}
