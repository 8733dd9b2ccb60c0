package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Body is the JSON error shape returned by every service.
type Body struct {
	Status  int               `json:"status"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HTTPErrorHandler renders service errors as Body. Unknown errors become 500
// and are logged; their text is not sent to the client.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := toBody(err)
		if body.Status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Int("status", body.Status).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(body.Status)
		} else {
			writeErr = c.JSON(body.Status, body)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}

func toBody(err error) Body {
	var (
		nf       *NotFoundError
		invalid  *ValidationError
		upstream *UpstreamError
		he       *echo.HTTPError
	)
	switch {
	case errors.As(err, &nf):
		return newBody(http.StatusNotFound, nf.Error())
	case errors.As(err, &invalid):
		b := newBody(http.StatusBadRequest, invalid.Message)
		b.Fields = invalid.Fields
		return b
	case errors.As(err, &upstream):
		return newBody(http.StatusBadGateway, fmt.Sprintf("%s service unavailable", upstream.Service))
	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		return newBody(he.Code, msg)
	}
	return newBody(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func newBody(status int, message string) Body {
	return Body{Status: status, Error: http.StatusText(status), Message: message}
}

// StatusOf returns the HTTP status HTTPErrorHandler would use for err.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return toBody(err).Status
}
