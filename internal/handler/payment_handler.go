package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /paymentのHTTP
type PaymentHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewPaymentHandler(uc *usecase.CheckoutUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type InitiatePaymentRequest struct {
	Email     string `json:"email"`
	ProductID string `json:"product_id"`
}

// /payment, /payment/verify を登録
func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/payment")
	g.Use(middleware.CartSession(cfg))

	g.POST("", h.initiate)
	g.GET("/verify", h.verify)
}

func (h *PaymentHandler) initiate(c echo.Context) error {
	sid, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.InitiatePayment(c.Request().Context(), sid, usecase.InitiatePaymentInput{
		Email:     req.Email,
		ProductID: req.ProductID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) verify(c echo.Context) error {
	sid, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.VerifyPayment(c.Request().Context(), sid, c.QueryParam("reference"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
