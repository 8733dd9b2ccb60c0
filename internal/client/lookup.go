// Package client holds the HTTP clients the appointment service uses to check
// that the patients and doctors it references exist.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/isi/clinic/internal/platform/apperr"
	"github.com/isi/clinic/internal/platform/auth"
	"github.com/isi/clinic/internal/platform/metrics"
	"github.com/isi/clinic/internal/platform/middleware"
)

// lookup fetches one resource by id from another service's REST API.
type lookup struct {
	service string
	baseURL string
	path    string
	http    *http.Client
	logger  zerolog.Logger
}

func newLookup(service, baseURL, path string, httpClient *http.Client, logger zerolog.Logger) lookup {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return lookup{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
		http:    httpClient,
		logger:  logger.With().Str("client", service).Logger(),
	}
}

// get decodes the resource into out. A 404 reports (false, nil); every other
// non-200 answer, transport or decode failure is an *apperr.UpstreamError.
func (l lookup) get(ctx context.Context, id int64, out interface{}) (bool, error) {
	url := l.baseURL + l.path + "/" + strconv.FormatInt(id, 10)
	rid := middleware.RequestIDFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, l.fail(rid, id, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if tok := auth.TokenFromContext(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if rid != "" {
		req.Header.Set(middleware.RequestIDHeader, rid)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return false, l.fail(rid, id, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		metrics.RemoteLookups.WithLabelValues(l.service, metrics.OutcomeNotFound).Inc()
		l.logger.Debug().Str("request_id", rid).Int64("id", id).Msg("remote lookup: not found")
		return false, nil
	default:
		io.Copy(io.Discard, resp.Body)
		return false, l.fail(rid, id, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, l.fail(rid, id, fmt.Errorf("decode response: %w", err))
	}

	metrics.RemoteLookups.WithLabelValues(l.service, metrics.OutcomeFound).Inc()
	l.logger.Debug().Str("request_id", rid).Int64("id", id).Msg("remote lookup: found")
	return true, nil
}

func (l lookup) fail(rid string, id int64, err error) error {
	metrics.RemoteLookups.WithLabelValues(l.service, metrics.OutcomeError).Inc()
	l.logger.Error().Err(err).Str("request_id", rid).Int64("id", id).Msg("remote lookup failed")
	return &apperr.UpstreamError{Service: l.service, Err: err}
}
