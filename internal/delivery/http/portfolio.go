package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"stocksim/internal/dto"
	"stocksim/pkg/utils"
)

func (h *HttpAPIHandler) SetupPortfolio(base *echo.Group) {
	portfolio := base.Group("/portfolio")
	{
		portfolio.GET("", h.GetPortfolio)
		portfolio.POST("", h.CreatePortfolio)
		portfolio.GET("/snapshots", h.GetSnapshots)
	}
	base.POST("/simulation/advance", h.AdvanceDate)
}

func (h *HttpAPIHandler) GetPortfolio(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	view, err := h.service.PortfolioService.Get(c.Request().Context(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Portfolio", view))
}

func (h *HttpAPIHandler) CreatePortfolio(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var req dto.CreatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}

	portfolio, err := h.service.PortfolioService.Create(c.Request().Context(), userID, req.InitialBalance)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Portfolio created", portfolio))
}

func (h *HttpAPIHandler) GetSnapshots(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var from, to time.Time
	if raw := c.QueryParam("from"); raw != "" {
		if from, err = utils.ParseDate(raw); err != nil {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		if to, err = utils.ParseDate(raw); err != nil {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
	}

	snapshots, err := h.service.PortfolioService.GetSnapshots(c.Request().Context(), userID, from, to)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Portfolio history", snapshots))
}

func (h *HttpAPIHandler) AdvanceDate(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	var req dto.AdvanceDateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	portfolio, err := h.service.PortfolioService.AdvanceDate(c.Request().Context(), userID, req.Days)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Simulation date advanced", portfolio))
}
