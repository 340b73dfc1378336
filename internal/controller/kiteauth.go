package controller

import (
	"github.com/labstack/echo/v4"

	"github.com/trademcp/trademcp/internal/models"
)

// (POST /kite/login).
func (c *Controller) KiteLogin(ctx echo.Context) error {
	var req models.KiteLoginRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	c.log.Infow("Kite login request", "apiKey", req.APIKey)

	if req.APIKey == "" || req.APISecret == "" {
		c.log.Warn("Kite login failed: missing API key or secret")
		return badRequest(ctx, "API key and secret are required")
	}

	result, err := c.kiteAuth.GenerateLoginURL(ctx.Request().Context(), req.APIKey, req.APISecret)
	if err != nil {
		c.log.Errorw("Kite login error", "error", err)
		return badRequest(ctx, err.Error())
	}

	return success(ctx, result)
}

// (POST /kite/session).
func (c *Controller) KiteSession(ctx echo.Context) error {
	var req models.KiteSessionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	c.log.Infow("Kite session request", "apiKey", req.APIKey)

	if req.SessionID == "" || req.RequestToken == "" || req.APIKey == "" || req.APISecret == "" {
		c.log.Warn("Kite session failed: missing required fields")
		return badRequest(ctx, "Session ID, request token, API key, and secret are required")
	}

	result, err := c.kiteAuth.GenerateSession(ctx.Request().Context(), req.SessionID, req.RequestToken)
	if err != nil {
		c.log.Errorw("Kite session error", "error", err)
		return badRequest(ctx, err.Error())
	}

	return success(ctx, result)
}

// (GET /kite/token/:apiKey).
func (c *Controller) KiteToken(ctx echo.Context) error {
	apiKey := ctx.Param("apiKey")

	c.log.Infow("Kite token request", "apiKey", apiKey)

	token, err := c.kiteAuth.StoredAccessToken(ctx.Request().Context(), apiKey)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	return success(ctx, map[string]string{"accessToken": token})
}

// (GET /kite/callback) and (GET /trade/callback).
// The broker redirects here after the end user authenticates; the callback
// parameters are echoed back for the front end to drive the session exchange.
func (c *Controller) KiteCallback(ctx echo.Context) error {
	status := ctx.QueryParam("status")
	requestToken := ctx.QueryParam("request_token")

	c.log.Infow("Kite callback received", "status", status)

	if status != "success" || requestToken == "" {
		c.log.Warnw("Kite callback failed", "status", status)
		return badRequest(ctx, "Authentication failed or missing request token")
	}

	return success(ctx, models.KiteCallbackResponse{
		Action:       ctx.QueryParam("action"),
		Type:         ctx.QueryParam("type"),
		Status:       status,
		RequestToken: requestToken,
	})
}
