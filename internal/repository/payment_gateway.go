package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 決済初期化の入力。金額は最小通貨単位（例: kobo）。
// referenceは呼び出し側が生成する冪等キー。
type InitializePaymentInput struct {
	Email       string
	AmountMinor int64
	Reference   string
	CallbackURL string
	ProductID   string
}

type PaymentAuthorization struct {
	AuthorizationURL string
	Reference        string
}

type PaymentVerification struct {
	Status      model.PaymentStatus
	Reference   string
	AmountMinor int64
	PaidAt      string
}

// 決済ゲートウェイ（外部サービス）。
type PaymentGateway interface {
	Initialize(ctx context.Context, in InitializePaymentInput) (PaymentAuthorization, error)
	Verify(ctx context.Context, reference string) (PaymentVerification, error)
}
