package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRecord はセッション1つ分のカートを1行で持つ。
// itemsは明細配列をそのままJSONで保存する（スキーマのバージョン欄は持たない）。
type CartRecord struct {
	SessionID string    `gorm:"primaryKey;type:varchar(64)"`
	Items     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

func (CartRecord) TableName() string {
	return "carts"
}

type CartGormStorage struct {
	db *gorm.DB
}

// DI
func NewCartGormStorage(db *gorm.DB) *CartGormStorage {
	return &CartGormStorage{db: db}
}

// Load はセッションの明細を読み出す。
// 行が無い場合もJSONが壊れている場合も ErrNotFound（呼び出し側で空カート扱い）。
func (s *CartGormStorage) Load(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	var rec CartRecord

	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(rec.Items), &items); err != nil {
		// 壊れた保存データは「保存なし」と同じ扱い
		return nil, repo.ErrNotFound
	}

	return items, nil
}

// Save は明細全件をJSONにして upsert する。
func (s *CartGormStorage) Save(ctx context.Context, sessionID string, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	rec := CartRecord{
		SessionID: sessionID,
		Items:     string(data),
		UpdatedAt: time.Now(),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(&rec).Error
}
