package http

import (
	"context"
	"errors"
	"net/http"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"stocksim/config"
	"stocksim/internal/dto"
	"stocksim/internal/service"
	"stocksim/pkg/middleware"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	cfg       *config.Config
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, e *echo.Echo, cfg *config.Config, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      e,
		cfg:       cfg,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.Use(middleware.NewRequestIDMiddleware())
	h.echo.Use(middleware.NewRateLimiterMiddleware(h.cfg.API.RateLimitPerSec, h.cfg.API.RateLimitBurst))

	h.echo.GET("/health", h.Health)

	base := h.echo.Group("/api/v1", middleware.NewAuthMiddleware(h.cfg.Auth.JWTSecret))
	h.SetupTrading(base)
	h.SetupPortfolio(base)
	h.SetupStocks(base)
}

func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}

// errorResponse maps domain errors onto HTTP status codes. The services
// return sentinel errors untouched; this is the only place that decides
// user-facing status.
func errorResponse(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, dto.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, dto.ErrPortfolioNotFound),
		errors.Is(err, dto.ErrPositionNotFound),
		errors.Is(err, dto.ErrStockNotFound),
		errors.Is(err, dto.ErrUserNotFound):
		code = http.StatusNotFound
	case errors.Is(err, dto.ErrInsufficientFunds),
		errors.Is(err, dto.ErrInsufficientShares):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, dto.ErrPortfolioExists):
		code = http.StatusConflict
	}
	return c.JSON(code, dto.NewBaseResponse(code, err.Error(), nil))
}

func (h *HttpAPIHandler) userID(c echo.Context) (uint, error) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return userID, nil
}
