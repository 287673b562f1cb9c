package blocks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"goblocks/config"
	"goblocks/protocol"
	"goblocks/theme"
)

const httpBodyLimit = 64 << 10

// HTTPBlock periodically fetches a URL and shows the response body, meant
// for endpoints that return a short line of text (weather, external IP).
// Request failures show the configured error text and keep polling; the
// network coming back should heal the block without a restart.
type HTTPBlock struct {
	PollingBlock

	url         string
	formatError string
	client      *http.Client
}

func NewHTTP(cfg config.HTTPModule) *HTTPBlock {
	h := &HTTPBlock{
		url:         cfg.URL,
		formatError: cfg.FormatError,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
	}
	h.PollingBlock = PollingBlock{
		Base:     NewBase("http", barDefaults()),
		Interval: time.Duration(cfg.IntervalSec) * time.Second,
		Poll:     h.poll,
	}
	return h
}

func (h *HTTPBlock) poll(ctx context.Context) error {
	body, err := h.fetch(ctx)
	if err != nil {
		h.Logger().Warn("request failed", zap.String("url", h.url), zap.Error(err))
		st := protocol.State{FullText: h.formatError}
		if color, ok := theme.ColorFor(theme.SeverityDanger); ok {
			st.Color = color
		}
		h.Update(st)
		return nil
	}
	h.Update(protocol.State{FullText: strings.TrimSpace(body)})
	return nil
}

func (h *HTTPBlock) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, httpBodyLimit))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
