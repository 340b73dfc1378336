package controller

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trademcp/trademcp/internal/models"
)

// (POST /auth/register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		c.log.Warn("Registration failed: missing required fields")
		return badRequest(ctx, "All fields are required")
	}

	result, err := c.authService.Register(ctx.Request().Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		c.log.Errorw("Registration error", "email", req.Email, "error", err)
		return badRequest(ctx, err.Error())
	}

	return created(ctx, result)
}

// (POST /auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		c.log.Warn("Login failed: missing email or password")
		return badRequest(ctx, "Email and password are required")
	}

	result, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		c.log.Errorw("Login error", "email", req.Email, "error", err)
		return unauthorized(ctx, err.Error())
	}

	return success(ctx, result)
}

// (GET /auth/me).
func (c *Controller) Me(ctx echo.Context) error {
	token := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if token == "" {
		return unauthorized(ctx, "Authorization token is required")
	}

	user, err := c.authService.Me(ctx.Request().Context(), token)
	if err != nil {
		c.log.Warnw("Me lookup failed", "error", err)
		return respondError(ctx, err)
	}

	return success(ctx, user)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimPrefix(header, prefix)
	}
	return ""
}
