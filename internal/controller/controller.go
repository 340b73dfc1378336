package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/service"
	"github.com/trademcp/trademcp/internal/util"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type Controller struct {
	log         *zap.SugaredLogger
	authService *service.AuthService
	kiteAuth    *service.KiteAuthService
	orders      *service.OrderService
	profile     *service.ProfileService
	reports     *service.ReportService
}

func NewController(
	log *zap.SugaredLogger,
	authService *service.AuthService,
	kiteAuth *service.KiteAuthService,
	orders *service.OrderService,
	profile *service.ProfileService,
	reports *service.ReportService,
) *Controller {
	return &Controller{
		log:         log,
		authService: authService,
		kiteAuth:    kiteAuth,
		orders:      orders,
		profile:     profile,
		reports:     reports,
	}
}

// (GET /).
func (c *Controller) Health(ctx echo.Context) error {
	return success(ctx, map[string]string{"message": "trademcp API is running"})
}

func success(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusOK, Response{Status: "Success", Data: data})
}

func created(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusCreated, Response{Status: "Success", Data: data})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Response{Status: "Error", Data: ErrorData{Message: message}})
}

func unauthorized(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusUnauthorized, Response{Status: "Error", Data: ErrorData{Message: message}})
}

// respondError maps a service error onto the envelope, honoring the status
// carried by a util.ResponseError and defaulting everything else to 400.
func respondError(ctx echo.Context, err error) error {
	var respErr util.ResponseError
	if errors.As(err, &respErr) {
		return ctx.JSON(respErr.Status, Response{Status: "Error", Data: ErrorData{Message: respErr.Msg}})
	}
	return badRequest(ctx, err.Error())
}
