// Package proxy forwards the AI extension calls of the patient front end to
// the extension host.
package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/isi/clinic/internal/platform/apperr"
)

const (
	modelSettingsPath = "/ai/model_settings"
	langFrPath        = "/languages/lang/get/lang/fr"
)

type Handler struct {
	target string
	http   *http.Client
	logger zerolog.Logger
}

func NewHandler(targetURL string, httpClient *http.Client, logger zerolog.Logger) *Handler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Handler{
		target: strings.TrimRight(targetURL, "/"),
		http:   httpClient,
		logger: logger.With().Str("component", "proxy").Logger(),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/model_settings", h.ModelSettings)
	g.GET("/lang/fr", h.LangFr)
}

// ModelSettings relays the request body unchanged.
func (h *Handler) ModelSettings(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return h.forward(c, http.MethodPost, modelSettingsPath, body, contentType)
}

func (h *Handler) LangFr(c echo.Context) error {
	return h.forward(c, http.MethodGet, langFrPath, nil, "")
}

// forward copies the upstream status and body back to the caller, whatever
// the status.
func (h *Handler) forward(c echo.Context, method, path string, body []byte, contentType string) error {
	status, respType, respBody, err := h.do(c.Request().Context(), method, path, body, contentType)
	if err != nil {
		rid, _ := c.Get("request_id").(string)
		h.logger.Error().Err(err).Str("request_id", rid).Str("path", path).Msg("proxy request failed")
		return &apperr.UpstreamError{Service: "extension", Err: err}
	}
	if respType == "" {
		respType = echo.MIMETextPlainCharsetUTF8
	}
	return c.Blob(status, respType, respBody)
}

func (h *Handler) do(ctx context.Context, method, path string, body []byte, contentType string) (int, string, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.target+path, reader)
	if err != nil {
		return 0, "", nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return 0, "", nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, resp.Header.Get(echo.HeaderContentType), respBody, nil
}
