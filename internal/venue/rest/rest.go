// Package rest implements the venue boundary over an HTTP matching API.
// Requests are rate limited client-side and never retried: an IOC attempt
// is final, and replaying one could double-execute it.
package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/ockhamtrading/stoploss/internal/types"
	"github.com/ockhamtrading/stoploss/internal/venue"
)

// Config holds REST venue client settings.
type Config struct {
	BaseURL            string
	APIKey             string
	Timeout            time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Client implements venue.Venue against an HTTP matching API.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a REST venue client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimitPerSecond <= 0 {
		cfg.RateLimitPerSecond = 10
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = cfg.RateLimitPerSecond
	}

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		hc.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &Client{
		http:    hc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst),
		logger:  logger,
	}
}

type marketResponse struct {
	Address      string `json:"address"`
	BaseLotSize  uint64 `json:"base_lot_size"`
	QuoteLotSize uint64 `json:"quote_lot_size"`
}

type orderRequest struct {
	Side              string `json:"side"`
	LimitPrice        uint64 `json:"limit_price"`
	MaxBaseQty        uint64 `json:"max_base_qty"`
	MaxQuoteQty       uint64 `json:"max_quote_qty"`
	ClientOrderID     uint64 `json:"client_order_id"`
	PayingAccount     string `json:"paying_account"`
	RoutingRecord     string `json:"routing_record"`
	OrderType         string `json:"order_type"`
	SelfTradeBehavior string `json:"self_trade_behavior"`
	MaxMatches        uint16 `json:"max_matches"`
}

type settleRequest struct {
	RoutingRecord string `json:"routing_record"`
	BaseDest      string `json:"base_dest"`
	QuoteDest     string `json:"quote_dest"`
}

// Market returns lot-size metadata for a market.
func (c *Client) Market(ctx context.Context, market types.Address) (*venue.MarketInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out marketResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/markets/%s", market))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", venue.ErrVenueUnhealthy, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", venue.ErrUnknownMarket, market)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: market query returned %d", venue.ErrVenueUnhealthy, resp.StatusCode())
	}

	return &venue.MarketInfo{
		Address:      types.Address(out.Address),
		BaseLotSize:  out.BaseLotSize,
		QuoteLotSize: out.QuoteLotSize,
	}, nil
}

// SubmitOrder submits an immediate-or-cancel order.
func (c *Client) SubmitOrder(ctx context.Context, market types.Address, ord venue.IOCOrder) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req := orderRequest{
		Side:              ord.Side.String(),
		LimitPrice:        ord.LimitPrice,
		MaxBaseQty:        ord.MaxBaseQty,
		MaxQuoteQty:       ord.MaxQuoteQty,
		ClientOrderID:     ord.ClientOrderID,
		PayingAccount:     string(ord.PayingAccount),
		RoutingRecord:     string(ord.RoutingRecord),
		OrderType:         types.OrderTypeImmediateOrCancel.String(),
		SelfTradeBehavior: "decrement_take",
		MaxMatches:        ord.MaxMatches,
	}

	c.logger.Info("submitting child order",
		"market", market,
		"side", req.Side,
		"client_order_id", req.ClientOrderID,
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/markets/%s/orders", market))
	if err != nil {
		return fmt.Errorf("%w: %v", venue.ErrVenueUnhealthy, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s", venue.ErrUnknownMarket, market)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: submit returned %d: %s", venue.ErrOrderRejected, resp.StatusCode(), resp.String())
	}
	return nil
}

// SettleFunds releases filled proceeds and any unfilled remainder for a
// routing record to the given destinations.
func (c *Client) SettleFunds(ctx context.Context, market, routing, baseDest, quoteDest types.Address) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req := settleRequest{
		RoutingRecord: string(routing),
		BaseDest:      string(baseDest),
		QuoteDest:     string(quoteDest),
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/markets/%s/settle", market))
	if err != nil {
		return fmt.Errorf("%w: %v", venue.ErrVenueUnhealthy, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: settle returned %d: %s", venue.ErrSettleFailed, resp.StatusCode(), resp.String())
	}
	return nil
}
