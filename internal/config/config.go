package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port    string // サーバーポート（8080）
	BaseURL string // 決済コールバックで使う自分のURL
	FEURL   string // フロントURL（CORSで使う）

	SpreadsheetID   string // 商品シートのID
	SheetsAPIKey    string // Sheets APIキー
	SheetsReadRange string // 商品データの範囲

	PaystackSecretKey string // 決済ゲートウェイのシークレット

	SessionSecret string // カートセッションJWTの署名シークレット

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:    getenv("PORT", "8080"),
		BaseURL: os.Getenv("BASE_URL"),
		FEURL:   getenv("FE_URL", "http://localhost:5173"),

		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		SheetsAPIKey:    os.Getenv("SHEETS_API_KEY"),
		SheetsReadRange: getenv("SHEETS_READ_RANGE", "Sheet1!A2:H"),

		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}

	//必須チェック
	if cfg.SpreadsheetID == "" {
		return Config{}, fmt.Errorf("SPREADSHEET_ID is required")
	}
	if cfg.SheetsAPIKey == "" {
		return Config{}, fmt.Errorf("SHEETS_API_KEY is required")
	}
	if cfg.PaystackSecretKey == "" {
		return Config{}, fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
