package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://sheets.googleapis.com/v4"

// DefaultReadRange はヘッダ行を除いた商品データの範囲。
const DefaultReadRange = "Sheet1!A2:H"

// SheetsCatalog はスプレッドシートを商品DBとして読むクライアント。
// 列の並び: id, name, price, category, description, image_url, stock, rating
type SheetsCatalog struct {
	BaseURL       string
	SpreadsheetID string
	APIKey        string
	ReadRange     string
	HTTPClient    *http.Client
}

func NewSheetsCatalog(spreadsheetID, apiKey string) *SheetsCatalog {
	return &SheetsCatalog{
		BaseURL:       DefaultBaseURL,
		SpreadsheetID: spreadsheetID,
		APIKey:        apiKey,
		ReadRange:     DefaultReadRange,
		HTTPClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// values.get のレスポンス
type valuesResponse struct {
	Values [][]any `json:"values"`
}

// ListProducts は範囲内の全行を取得して商品に変換する。
func (c *SheetsCatalog) ListProducts(ctx context.Context) ([]model.Product, error) {
	endpoint := fmt.Sprintf(
		"%s/spreadsheets/%s/values/%s?valueRenderOption=UNFORMATTED_VALUE&key=%s",
		c.BaseURL,
		url.PathEscape(c.SpreadsheetID),
		url.PathEscape(c.ReadRange),
		url.QueryEscape(c.APIKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheets api status %d", res.StatusCode)
	}

	var body valuesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	if len(body.Values) == 0 {
		return nil, errors.New("no data found in spreadsheet")
	}

	products := make([]model.Product, 0, len(body.Values))
	for i, row := range body.Values {
		// データ列が6未満の行はスキップ
		if len(row) < 6 {
			continue
		}
		products = append(products, rowToProduct(row, i))
	}

	return products, nil
}

// FindByID は全件取得してからIDで探す（カタログ側に単一取得APIは無い）。
func (c *SheetsCatalog) FindByID(ctx context.Context, id string) (model.Product, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return model.Product{}, err
	}

	want := strings.ToLower(strings.TrimSpace(id))
	for _, p := range products {
		if p.ID == want {
			return p, nil
		}
	}

	return model.Product{}, repo.ErrNotFound
}

// Ping は起動時のアクセス確認。ヘッダのセルだけ読む。
func (c *SheetsCatalog) Ping(ctx context.Context) error {
	probe := *c
	probe.ReadRange = "Sheet1!A1:A1"
	_, err := probe.ListProducts(ctx)
	return err
}

// 1行を商品に変換する。欠けたセルは既定値で埋める。
func rowToProduct(row []any, index int) model.Product {
	id := strings.ToLower(cellString(row, 0))
	if id == "" {
		// シートは1始まり＋ヘッダ行なので +2
		id = fmt.Sprintf("prod-%d", index+2)
	}

	name := cellString(row, 1)
	if name == "" {
		name = "Unnamed Product"
	}

	category := cellString(row, 3)
	if category == "" {
		category = "Uncategorized"
	}

	description := cellString(row, 4)
	if description == "" {
		description = "No description"
	}

	imageURL := cellString(row, 5)
	if imageURL == "" {
		imageURL = "https://via.placeholder.com/150"
	}

	stock := int64(cellFloat(row, 6))
	if stock < 0 {
		stock = 0
	}

	rating := cellFloat(row, 7)
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}

	return model.Product{
		ID:          id,
		Name:        name,
		Price:       decimal.NewFromFloat(cellFloat(row, 2)),
		Category:    category,
		Description: description,
		ImageURL:    imageURL,
		Stock:       stock,
		Rating:      rating,
	}
}

func cellString(row []any, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func cellFloat(row []any, i int) float64 {
	if i >= len(row) || row[i] == nil {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
