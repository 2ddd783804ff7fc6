package model

import "github.com/shopspring/decimal"

// カートの明細。
// unit_price は追加時点の価格スナップショット（再取得しない）。
type CartItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	InStock   bool            `json:"in_stock"`
	Quantity  int64           `json:"quantity"`
}

// Cart は明細を追加順で保持する。
// 同一product_idの明細は常に1つ。quantityは常に1以上。
type Cart struct {
	items []CartItem
}

// NewCart は永続化から復元した明細でカートを作る。
// 形の崩れた明細（product_id空・数量0以下）は捨て、重複product_idは数量を合算する。
func NewCart(items []CartItem) *Cart {
	c := &Cart{}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 {
			continue
		}
		c.Add(it, it.Quantity)
	}
	return c
}

// Add は明細を追加する。既存のproduct_idなら数量を加算する。
// qtyが1未満なら1に切り上げる。
func (c *Cart) Add(item CartItem, qty int64) {
	if qty < 1 {
		qty = 1
	}

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += qty
			return
		}
	}

	item.Quantity = qty
	c.items = append(c.items, item)
}

// SetQuantity は数量を置き換える。0以下なら削除と同じ。
// 存在しないproduct_idは何もしない（暗黙の作成はしない）。
func (c *Cart) SetQuantity(productID string, qty int64) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = qty
			return
		}
	}
}

// Remove は明細を削除する。無ければ何もしない。
func (c *Cart) Remove(productID string) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear は全明細を削除する。
func (c *Cart) Clear() {
	c.items = nil
}

// Items は明細のコピーを追加順で返す。
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total は unit_price × quantity の合計を小数2桁（四捨五入）で返す。
// 毎回現在の明細から計算し直す（差分更新はしない）。
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total.Round(2)
}

// ItemCount は数量の合計を返す（明細数ではない）。
func (c *Cart) ItemCount() int64 {
	var n int64 = 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}
