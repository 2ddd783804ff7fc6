package server

import (
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/metrics"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はechoサーバーを組み立てる。
func New(
	cfg config.Config,
	m *metrics.ServerMetrics,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	paymentH *handler.PaymentHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(metrics.Middleware(m))
	e.Use(requestLogger())

	RegisterRoutes(e, cfg, productH, cartH, paymentH)
	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}

// アクセスログ（JSON）
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			slog.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)

			return err
		}
	}
}
