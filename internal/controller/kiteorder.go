package controller

import (
	"github.com/labstack/echo/v4"

	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/service"
)

// (POST /kite/order/place).
func (c *Controller) PlaceOrder(ctx echo.Context) error {
	var req models.PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	c.log.Infow("Order request",
		"transactionType", req.TransactionType,
		"quantity", req.Quantity,
		"tradingSymbol", req.TradingSymbol,
	)

	if req.APIKey == "" || req.TradingSymbol == "" || req.Quantity == 0 || req.TransactionType == "" {
		c.log.Warn("Order placement failed: missing required fields")
		return badRequest(ctx, "API key, trading symbol, quantity, and transaction type are required")
	}
	if req.TransactionType != "BUY" && req.TransactionType != "SELL" {
		c.log.Warn("Order placement failed: invalid transaction type")
		return badRequest(ctx, "Transaction type must be BUY or SELL")
	}
	if req.Quantity <= 0 {
		c.log.Warn("Order placement failed: invalid quantity")
		return badRequest(ctx, "Quantity must be greater than 0")
	}

	result, err := c.orders.PlaceOrder(ctx.Request().Context(), req)
	if err != nil {
		c.log.Errorw("Order placement error", "error", err)
		return badRequest(ctx, err.Error())
	}

	return success(ctx, result)
}

// (GET /kite/orders).
func (c *Controller) OrderBook(ctx echo.Context) error {
	apiKey := ctx.QueryParam("apiKey")

	c.log.Infow("Order book request", "apiKey", apiKey)

	if apiKey == "" {
		c.log.Warn("Order book request failed: missing API key")
		return badRequest(ctx, "API key is required")
	}

	result, err := c.orders.OrderBook(ctx.Request().Context(), apiKey)
	if err != nil {
		c.log.Errorw("Order book retrieval error", "error", err)
		return badRequest(ctx, err.Error())
	}

	return success(ctx, result)
}

// (GET /kite/positions).
func (c *Controller) Positions(ctx echo.Context) error {
	apiKey := ctx.QueryParam("apiKey")

	c.log.Infow("Positions request", "apiKey", apiKey)

	if apiKey == "" {
		c.log.Warn("Positions request failed: missing API key")
		return badRequest(ctx, "API key is required")
	}

	result, err := c.orders.Positions(ctx.Request().Context(), apiKey)
	if err != nil {
		c.log.Errorw("Positions retrieval error", "error", err)
		return badRequest(ctx, err.Error())
	}

	return success(ctx, result)
}

// (GET /kite/profile).
func (c *Controller) Profile(ctx echo.Context) error {
	apiKey := ctx.QueryParam("apiKey")

	c.log.Infow("Profile request", "apiKey", apiKey)

	if apiKey == "" {
		c.log.Warn("Profile request failed: missing API key")
		return badRequest(ctx, "API key is required")
	}

	result, err := c.profile.Profile(ctx.Request().Context(), apiKey)
	if err != nil {
		c.log.Errorw("Profile retrieval error", "error", err)
		return badRequest(ctx, err.Error())
	}

	return success(ctx, result)
}

// (GET /kite/report).
func (c *Controller) Report(ctx echo.Context) error {
	apiKey := ctx.QueryParam("apiKey")

	c.log.Infow("Report request", "apiKey", apiKey)

	if apiKey == "" {
		c.log.Warn("Report request failed: missing API key")
		return badRequest(ctx, "API key is required")
	}

	opts := service.ReportOptions{
		IncludeRecommendations: ctx.QueryParam("recommendations") != "false",
		RiskAnalysis:           ctx.QueryParam("riskAnalysis") != "false",
	}

	report, err := c.reports.PortfolioReport(ctx.Request().Context(), apiKey, opts)
	if err != nil {
		c.log.Errorw("Report generation error", "error", err)
		return badRequest(ctx, err.Error())
	}

	return success(ctx, map[string]string{"report": report})
}
