package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/paystack"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/sheets"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger.New(logger.Options{
		Service: "storefront-api",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
	})

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(&infraRepo.CartRecord{}); err != nil {
		slog.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	//外部コラボレーター
	catalog := sheets.NewSheetsCatalog(cfg.SpreadsheetID, cfg.SheetsAPIKey)
	catalog.ReadRange = cfg.SheetsReadRange

	gateway := paystack.NewClient(cfg.PaystackSecretKey)

	//起動時にシートへのアクセスを確認（失敗しても起動は続ける）
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := catalog.Ping(ctx); err != nil {
		slog.Warn("spreadsheet access check failed", "error", err)
	} else {
		slog.Info("spreadsheet access verified", "spreadsheet_id", cfg.SpreadsheetID)
	}
	cancel()

	//Repository生成
	cartStorage := infraRepo.NewCartGormStorage(gormDB)

	//Usecase生成
	cartUC := usecase.NewCartUsecase(cartStorage, catalog)
	productUC := usecase.NewProductUsecase(catalog)
	checkoutUC := usecase.NewCheckoutUsecase(cartUC, gateway, cfg.BaseURL)

	//Handler生成
	productH := handler.NewProductHandler(productUC)
	cartH := handler.NewCartHandler(cartUC)
	paymentH := handler.NewPaymentHandler(checkoutUC)

	//Server起動
	m := metrics.NewServerMetrics("api")
	e := server.New(cfg, m, productH, cartH, paymentH)

	addr := ":" + cfg.Port
	slog.Info("server starting", "addr", addr, "base_url", cfg.BaseURL)

	if err := server.Start(e, addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
