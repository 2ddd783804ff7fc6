package model

import "github.com/shopspring/decimal"

// カタログの商品。スプレッドシートの1行に対応する。
// 在庫のフィールド名は stock に統一する。
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Stock       int64           `json:"stock"`
	Rating      float64         `json:"rating"`
}

// InStock は在庫ありかどうか。カート明細のスナップショットに使う。
func (p Product) InStock() bool {
	return p.Stock > 0
}
