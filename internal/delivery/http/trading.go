package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"stocksim/internal/dto"
	"stocksim/pkg/utils"
)

func (h *HttpAPIHandler) SetupTrading(base *echo.Group) {
	trading := base.Group("/trading")
	{
		trading.POST("/buy", h.Buy)
		trading.POST("/sell", h.Sell)
		trading.GET("/history", h.History)
		trading.GET("/history/:symbol", h.SymbolHistory)
	}
}

func (h *HttpAPIHandler) Buy(c echo.Context) error {
	return h.executeTrade(c, true)
}

func (h *HttpAPIHandler) Sell(c echo.Context) error {
	return h.executeTrade(c, false)
}

func (h *HttpAPIHandler) executeTrade(c echo.Context, isBuy bool) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	tradeDate, err := h.resolveTradeDate(c, userID, req.Date)
	if err != nil {
		return errorResponse(c, err)
	}

	ctx := c.Request().Context()
	var result *dto.TradeResult
	if isBuy {
		result, err = h.service.TradingService.ExecuteBuy(ctx, userID, req.Symbol, req.Shares, req.Price, tradeDate)
	} else {
		result, err = h.service.TradingService.ExecuteSell(ctx, userID, req.Symbol, req.Shares, req.Price, tradeDate)
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Trade executed", dto.NewTradeResponse(result)))
}

// resolveTradeDate keeps the simulator's settlement behavior: an explicit
// date wins; otherwise the trade settles on the day before the
// portfolio's current simulation date.
func (h *HttpAPIHandler) resolveTradeDate(c echo.Context, userID uint, raw string) (time.Time, error) {
	if raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, dto.ErrValidation
		}
		return date, nil
	}

	view, err := h.service.PortfolioService.Get(c.Request().Context(), userID)
	if err != nil {
		return time.Time{}, err
	}
	return utils.PrevDay(view.Portfolio.SimulationDate), nil
}

func (h *HttpAPIHandler) History(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	transactions, err := h.service.TradingService.GetHistory(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Transaction history", transactions))
}

func (h *HttpAPIHandler) SymbolHistory(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	transactions, err := h.service.TradingService.GetSymbolHistory(c.Request().Context(), userID, c.Param("symbol"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Symbol transaction history", transactions))
}
