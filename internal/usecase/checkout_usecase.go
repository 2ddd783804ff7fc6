package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutUsecase は決済の開始と照会を受け持つ。
// 金額はチェックアウト時点のカート合計から計算する（クライアントの申告は使わない）。
// カートを空にするのは verify が success を返した後だけ。
type CheckoutUsecase struct {
	carts   *CartUsecase
	gateway repo.PaymentGateway
	baseURL string
}

func NewCheckoutUsecase(carts *CartUsecase, gateway repo.PaymentGateway, baseURL string) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:   carts,
		gateway: gateway,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type InitiatePaymentInput struct {
	Email     string
	ProductID string
}

type InitiatePaymentOutput struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// InitiatePayment は取引を開始してリダイレクト先を返す。
// 失敗してもカートはそのまま（ユーザーがやり直せる）。
func (u *CheckoutUsecase) InitiatePayment(ctx context.Context, sessionID string, in InitiatePaymentInput) (InitiatePaymentOutput, error) {
	if sessionID == "" {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Email) == "" {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusBadRequest, "email required")
	}

	total := u.carts.Total(ctx, sessionID)
	if !total.IsPositive() {
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	// 最小通貨単位に変換
	amountMinor := total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	auth, err := u.gateway.Initialize(ctx, repo.InitializePaymentInput{
		Email:       strings.TrimSpace(in.Email),
		AmountMinor: amountMinor,
		Reference:   "pay_" + uuid.NewString(),
		CallbackURL: u.baseURL + "/payment/verify",
		ProductID:   strings.TrimSpace(in.ProductID),
	})
	if err != nil {
		slog.Warn("payment initialize failed", "session_id", sessionID, "error", err)
		return InitiatePaymentOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	return InitiatePaymentOutput{
		AuthorizationURL: auth.AuthorizationURL,
		Reference:        auth.Reference,
	}, nil
}

type PaymentDataOutput struct {
	Reference   string `json:"reference"`
	AmountMinor int64  `json:"amount_minor"`
	PaidAt      string `json:"paid_at,omitempty"`
}

type VerifyPaymentOutput struct {
	Status model.PaymentStatus `json:"status"`
	Data   PaymentDataOutput   `json:"data"`
}

// VerifyPayment は決済状況を照会する。successのときだけカートを空にする。
func (u *CheckoutUsecase) VerifyPayment(ctx context.Context, sessionID string, reference string) (VerifyPaymentOutput, error) {
	if sessionID == "" {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(reference) == "" {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "reference required")
	}

	v, err := u.gateway.Verify(ctx, strings.TrimSpace(reference))
	if err != nil {
		slog.Warn("payment verify failed", "session_id", sessionID, "reference", reference, "error", err)
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	if v.Status == model.PaymentStatusSuccess {
		if _, err := u.carts.ClearCart(ctx, sessionID); err != nil {
			return VerifyPaymentOutput{}, err
		}
	}

	return VerifyPaymentOutput{
		Status: v.Status,
		Data: PaymentDataOutput{
			Reference:   v.Reference,
			AmountMinor: v.AmountMinor,
			PaidAt:      v.PaidAt,
		},
	}, nil
}
