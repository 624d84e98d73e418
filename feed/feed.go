// Package feed streams last-trade prices for one symbol over a WebSocket
// trade stream (Binance <symbol>@trade framing).
//
// The calculator never depends on the feed. Consumers read Updates, or
// poll Latest, and copy a price into position.Inputs themselves.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradecalc/internal/metrics"
)

var (
	ErrNoURL    = errors.New("feed: missing stream url")
	ErrNoSymbol = errors.New("feed: missing symbol")
)

// Update is one observed trade price.
type Update struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
}

type Config struct {
	URL    string // stream base, e.g. wss://stream.binance.com:9443/ws
	Symbol string

	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
}

func (c *Config) setDefaults() {
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = time.Minute
	}
}

// StreamURL joins the stream base and the lower-cased symbol.
func StreamURL(base, symbol string) string {
	return strings.TrimRight(base, "/") + "/" + strings.ToLower(symbol) + "@trade"
}

// tradeEvent is the subset of the Binance trade payload we use.
type tradeEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Price     string `json:"p"`
	TradeTime int64  `json:"T"`
}

type Client struct {
	cfg    Config
	url    string
	log    *zap.Logger
	dialer websocket.Dialer

	mu     sync.RWMutex
	last   Update
	hasAny bool
}

func New(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	if strings.TrimSpace(cfg.Symbol) == "" {
		return nil, ErrNoSymbol
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg.setDefaults()

	return &Client{
		cfg: cfg,
		url: StreamURL(cfg.URL, cfg.Symbol),
		log: log.With(zap.String("symbol", strings.ToUpper(cfg.Symbol))),
		dialer: websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}, nil
}

func (c *Client) URL() string { return c.url }

// LatestUpdate is the most recent price seen, if any.
func (c *Client) LatestUpdate() (Update, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.hasAny
}

// Run connects and keeps reconnecting until ctx is done. Sends to out
// never block; a full channel drops the update. out may be nil when only
// Latest is wanted.
func (c *Client) Run(ctx context.Context, out chan<- Update) error {
	backoff := c.cfg.InitialBackoff

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.log.Info("connecting to price feed", zap.String("url", c.url))
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.log.Warn("price feed dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = c.nextBackoff(backoff)
			continue
		}

		backoff = c.cfg.InitialBackoff
		metrics.FeedConnections.Inc()
		err = c.readLoop(ctx, conn, out)
		metrics.FeedConnections.Dec()
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("price feed connection closed", zap.Error(err))
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- Update) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))

		u, err := parseTrade(msg)
		if err != nil {
			c.log.Debug("skipping feed message", zap.Error(err))
			continue
		}
		if u.Symbol == "" {
			u.Symbol = strings.ToUpper(c.cfg.Symbol)
		}
		c.publish(u, out)
	}
}

func (c *Client) publish(u Update, out chan<- Update) {
	c.mu.Lock()
	c.last = u
	c.hasAny = true
	c.mu.Unlock()

	metrics.FeedUpdates.WithLabelValues(u.Symbol).Inc()
	if out == nil {
		return
	}
	select {
	case out <- u:
	default:
		metrics.FeedDropped.WithLabelValues(u.Symbol).Inc()
		c.log.Warn("update channel full, dropping price", zap.Float64("price", u.Price))
	}
}

func parseTrade(msg []byte) (Update, error) {
	var ev tradeEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		return Update{}, fmt.Errorf("bad json: %w", err)
	}
	if ev.EventType != "" && ev.EventType != "trade" && ev.EventType != "aggTrade" {
		return Update{}, fmt.Errorf("ignored event %q", ev.EventType)
	}
	if ev.Price == "" {
		return Update{}, errors.New("no price")
	}

	p, err := decimal.NewFromString(ev.Price)
	if err != nil {
		return Update{}, fmt.Errorf("price %q: %w", ev.Price, err)
	}
	if !p.IsPositive() {
		return Update{}, fmt.Errorf("non-positive price %s", ev.Price)
	}

	ts := time.Now().UTC()
	if ev.TradeTime > 0 {
		ts = time.UnixMilli(ev.TradeTime).UTC()
	} else if ev.EventTime > 0 {
		ts = time.UnixMilli(ev.EventTime).UTC()
	}

	return Update{
		Symbol: strings.ToUpper(ev.Symbol),
		Price:  p.InexactFloat64(),
		Time:   ts,
	}, nil
}

func (c *Client) nextBackoff(cur time.Duration) time.Duration {
	next := cur * 2
	if next > c.cfg.MaxBackoff {
		return c.cfg.MaxBackoff
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
