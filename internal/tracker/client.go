// internal/tracker/client.go
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 10 * time.Second
	fetchMaxElapsed = 20 * time.Second
)

// Client — HTTP-клиент агрегатора маршрутов (Solana Tracker Swap API).
// Возвращает готовый набор инструкций свапа; никакой математики маршрутов
// на нашей стороне нет.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient создает новый экземпляр клиента агрегатора.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger.Named("tracker"),
	}
}

// GetSwapInstructions запрашивает у сервиса сериализованные транзакции
// свапа и котировку. Сетевые и серверные (5xx) ошибки ретраятся с
// экспоненциальной задержкой; ошибки запроса (4xx) — нет.
func (c *Client) GetSwapInstructions(ctx context.Context, req *SwapRequest) (*SwapResponse, error) {
	if req.FromToken == "" || req.ToToken == "" {
		return nil, fmt.Errorf("from and to tokens are required")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %f", req.Amount)
	}

	reqURL := c.buildURL(req)

	op := func() (*SwapResponse, error) {
		return c.doRequest(ctx, reqURL)
	}

	resp, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(fetchMaxElapsed),
	)
	if err != nil {
		c.logger.Error("Failed to fetch swap instructions",
			zap.String("from", req.FromToken),
			zap.String("to", req.ToToken),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("Swap instructions received",
		zap.Float64("amount_out", resp.Rate.AmountOut),
		zap.Float64("price_impact", resp.Rate.PriceImpact),
		zap.Int("route_hops", len(resp.Route)))

	return resp, nil
}

func (c *Client) buildURL(req *SwapRequest) string {
	params := url.Values{}
	params.Set("from", req.FromToken)
	params.Set("to", req.ToToken)
	params.Set("fromAmount", strconv.FormatFloat(req.Amount, 'f', -1, 64))
	// Сервис принимает проскальзывание в процентах.
	params.Set("slippage", strconv.FormatFloat(float64(req.SlippageBps)/100, 'f', -1, 64))
	params.Set("payer", req.Payer)
	params.Set("forceLegacy", strconv.FormatBool(req.ForceLegacy))
	if !req.PriorityFee.IsZero() {
		params.Set("priorityFee", req.PriorityFee.QueryValue())
	}
	if len(req.IncludeDexes) > 0 {
		params.Set("includeDexes", strings.Join(req.IncludeDexes, ","))
	}
	if len(req.ExcludeDexes) > 0 {
		params.Set("excludeDexes", strings.Join(req.ExcludeDexes, ","))
	}
	return c.baseURL + "/swap?" + params.Encode()
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*SwapResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// Транспортная ошибка, можно повторить.
		return nil, fmt.Errorf("swap API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("swap API server error: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("swap API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var swapResp SwapResponse
	if err := json.Unmarshal(body, &swapResp); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode swap response: %w", err))
	}

	return &swapResp, nil
}
