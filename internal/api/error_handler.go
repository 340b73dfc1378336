package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/controller"
	"github.com/trademcp/trademcp/internal/util"
)

// ErrorHandler translates errors that escape the handlers into the
// {status, data} envelope. Handler-level domain errors are already written
// by the controller; this catches binding, validator, and routing errors.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var respErr util.ResponseError
		if errors.As(err, &respErr) {
			writeError(c, log, respErr.Status, respErr.Msg)
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			writeError(c, log, he.Code, msg)
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeError(c, log, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(c echo.Context, log *zap.SugaredLogger, status int, msg string) {
	resp := controller.Response{
		Status: "Error",
		Data:   controller.ErrorData{Message: msg},
	}
	if err := c.JSON(status, resp); err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}
