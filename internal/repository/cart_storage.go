package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カート明細の永続化。セッションIDごとに1キー（JSON配列）を持つ。
// 保存が無い・壊れている場合は ErrNotFound を返す（呼び出し側は空カート扱い）。
type CartStorage interface {
	Load(ctx context.Context, sessionID string) ([]model.CartItem, error)
	// 毎回の変更後に全件を書き込む（write-through）
	Save(ctx context.Context, sessionID string, items []model.CartItem) error
}
