package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const DefaultBaseURL = "https://api.paystack.co"

// Client は決済ゲートウェイのHTTPクライアント。
// 通貨はNGN固定（金額はkobo単位で渡す）。
type Client struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		SecretKey:  secretKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	Currency    string            `json:"currency"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// Initialize は取引を作成してリダイレクト先URLを受け取る。
func (c *Client) Initialize(ctx context.Context, in repo.InitializePaymentInput) (repo.PaymentAuthorization, error) {
	body := initializeRequest{
		Email:       in.Email,
		Amount:      in.AmountMinor,
		Reference:   in.Reference,
		Currency:    "NGN",
		CallbackURL: in.CallbackURL,
	}
	if in.ProductID != "" {
		body.Metadata = map[string]string{"product_id": in.ProductID}
	}

	var out initializeResponse
	if err := c.post(ctx, "/transaction/initialize", body, &out); err != nil {
		return repo.PaymentAuthorization{}, err
	}
	if !out.Status {
		return repo.PaymentAuthorization{}, fmt.Errorf("initialize rejected: %s", out.Message)
	}

	return repo.PaymentAuthorization{
		AuthorizationURL: out.Data.AuthorizationURL,
		Reference:        out.Data.Reference,
	}, nil
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// Verify は取引の決済状況を照会する。
func (c *Client) Verify(ctx context.Context, reference string) (repo.PaymentVerification, error) {
	var out verifyResponse
	if err := c.get(ctx, "/transaction/verify/"+reference, &out); err != nil {
		return repo.PaymentVerification{}, err
	}
	if !out.Status {
		return repo.PaymentVerification{}, fmt.Errorf("verify rejected: %s", out.Message)
	}

	return repo.PaymentVerification{
		Status:      toPaymentStatus(out.Data.Status),
		Reference:   out.Data.Reference,
		AmountMinor: out.Data.Amount,
		PaidAt:      out.Data.PaidAt,
	}, nil
}

// ゲートウェイのステータス文字列を success / pending / failed に寄せる。
func toPaymentStatus(s string) model.PaymentStatus {
	switch s {
	case "success":
		return model.PaymentStatusSuccess
	case "pending", "ongoing", "processing", "queued":
		return model.PaymentStatusPending
	default:
		// abandoned, failed, reversed など
		return model.PaymentStatusFailed
	}
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("paystack api status %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
