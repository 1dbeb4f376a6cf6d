package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/storage"
	"github.com/Skotchmaster/kamishop/internal/util"
)

// Envelope wraps every JSON response; Code mirrors the HTTP status.
type Envelope struct {
	Code int    `json:"code"`
	Data any    `json:"data"`
	Msg  string `json:"msg"`
}

const msgInternal = "服务器内部错误"

func respond(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, Envelope{Code: code, Data: data, Msg: msg})
}

func ok(c echo.Context, msg string, data any) error {
	return respond(c, http.StatusOK, msg, data)
}

// StatusOf maps service and storage errors to HTTP status codes.
func StatusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, service.ErrValidation), errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and renders it; internal details never reach the client.
func fail(c echo.Context, l *zap.SugaredLogger, event string, err error) error {
	code := StatusOf(err)
	msg := err.Error()
	if code >= http.StatusInternalServerError && code != http.StatusBadGateway {
		l.Errorw(event, "status", code, "error", err)
		msg = msgInternal
	} else {
		l.Warnw(event, "status", code, "error", err)
	}
	return respond(c, code, msg, nil)
}

// HTTPErrorHandler renders errors that escape handlers (routing, binding,
// middleware) in the same envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	l := logging.FromContext(c.Request().Context())

	code := StatusOf(err)
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, isStr := he.Message.(string); isStr {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	} else if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	if code >= http.StatusInternalServerError {
		l.Errorw("request_failed", "status", code, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = respond(c, code, msg, nil)
}

func badRequest(reason string) error {
	return fmt.Errorf("%w: %s", service.ErrValidation, reason)
}

// page reads the :skip/:limit path pair.
func page(c echo.Context) (offset, limit int, err error) {
	skip, err := strconv.Atoi(c.Param("skip"))
	if err != nil {
		return 0, 0, badRequest("skip must be an integer")
	}
	size, err := strconv.Atoi(c.Param("limit"))
	if err != nil {
		return 0, 0, badRequest("limit must be an integer")
	}
	offset, limit = util.FromSkip(skip, size)
	return offset, limit, nil
}

func listData[T any](total int64, items []T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{"data": items, "total": total}
}
