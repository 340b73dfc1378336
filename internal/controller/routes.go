package controller

import "github.com/labstack/echo/v4"

func RegisterRoutes(e *echo.Echo, c *Controller) {
	e.GET("/", c.Health)

	e.POST("/auth/register", c.Register)
	e.POST("/auth/login", c.Login)
	e.GET("/auth/me", c.Me)

	e.POST("/kite/login", c.KiteLogin)
	e.POST("/kite/session", c.KiteSession)
	e.GET("/kite/token/:apiKey", c.KiteToken)
	e.GET("/kite/callback", c.KiteCallback)
	e.GET("/trade/callback", c.KiteCallback)

	e.POST("/kite/order/place", c.PlaceOrder)
	e.GET("/kite/orders", c.OrderBook)
	e.GET("/kite/positions", c.Positions)
	e.GET("/kite/profile", c.Profile)
	e.GET("/kite/report", c.Report)
}
