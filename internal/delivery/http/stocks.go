package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stocksim/internal/dto"
)

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	stocks := base.Group("/stocks")
	{
		stocks.GET("", h.ListStocks)
		stocks.PUT("/:symbol/price", h.SetPrice)
	}
}

func (h *HttpAPIHandler) ListStocks(c echo.Context) error {
	stocks, err := h.service.StockService.List(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stocks", stocks))
}

func (h *HttpAPIHandler) SetPrice(c echo.Context) error {
	var req dto.SetPriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.service.StockService.SetPrice(c.Request().Context(), c.Param("symbol"), req.Price); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Price updated", nil))
}
