// Package api exposes the calculator over HTTP/JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradecalc/export"
	"github.com/rustyeddy/tradecalc/feed"
	"github.com/rustyeddy/tradecalc/internal/metrics"
	"github.com/rustyeddy/tradecalc/position"
)

// PriceSource supplies the latest live price. *feed.Client satisfies it.
type PriceSource interface {
	LatestUpdate() (feed.Update, bool)
}

type Options struct {
	Ticker     string
	CurveSteps int
	Prices     PriceSource // optional
	Log        *zap.Logger
	Now        func() time.Time
}

type handler struct {
	opts Options
}

const maxBody = 1 << 16

// NewRouter builds the HTTP routes.
func NewRouter(opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CurveSteps <= 0 {
		opts.CurveSteps = position.DefaultCurveSteps
	}
	h := &handler{opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Log))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "tradecalc"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", h.calculate)
		r.Post("/curve", h.curve)
		r.Post("/export", h.export)
		r.Get("/price", h.price)
	})

	return r
}

// CalculateResponse is the body returned by POST /api/v1/calculate.
type CalculateResponse struct {
	Inputs  position.Inputs  `json:"inputs"`
	Metrics position.Metrics `json:"metrics"`
	Display Display          `json:"display"`
}

// Display carries the on-screen strings for the summary cards.
type Display struct {
	TargetProfit string `json:"target_profit"`
	TargetROI    string `json:"target_roi"`
	StopProfit   string `json:"stop_profit"`
	StopROI      string `json:"stop_roi"`
	MaxLoss      string `json:"max_loss"`
	BreakEven    string `json:"break_even"`
	TargetValue  string `json:"target_value"`
	Investment   string `json:"investment"`
	Quantity     string `json:"quantity"`
	RiskReward   string `json:"risk_reward"`
	Profitable   bool   `json:"profitable"`
}

func NewDisplay(in position.Inputs, m position.Metrics) Display {
	return Display{
		TargetProfit: position.FormatSignedCurrency(m.TargetProfit),
		TargetROI:    position.FormatPercent(m.TargetROIPct, 1),
		StopProfit:   position.FormatCurrency(m.StopProfit),
		StopROI:      position.FormatPercent(m.StopROIPct, 1),
		MaxLoss:      position.FormatCurrency(m.MaxLoss()),
		BreakEven:    position.FormatCurrency(position.BreakEven(in)),
		TargetValue:  position.FormatCurrency(m.TargetRevenue),
		Investment:   position.FormatCurrency(m.Investment),
		Quantity:     strconv.FormatFloat(m.Quantity, 'f', 2, 64),
		RiskReward:   position.FormatRatio(m.RiskRewardRatio, 1),
		Profitable:   m.Profitable(),
	}
}

type CurveResponse struct {
	Points []position.CurvePoint `json:"points"`
}

type PriceResponse struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) calculate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInputs(w, r)
	if !ok {
		return
	}
	m := position.Compute(in)
	metrics.Calculations.WithLabelValues("calculate").Inc()

	writeJSON(w, http.StatusOK, CalculateResponse{
		Inputs:  in,
		Metrics: m,
		Display: NewDisplay(in, m),
	})
}

func (h *handler) curve(w http.ResponseWriter, r *http.Request) {
	steps := h.opts.CurveSteps
	if s := r.URL.Query().Get("steps"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 10000 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("steps must be an integer in 1..10000"))
			return
		}
		steps = n
	}

	in, ok := h.decodeInputs(w, r)
	if !ok {
		return
	}
	pts := position.SampleProfitCurve(in, position.Compute(in), steps)
	if pts == nil {
		pts = []position.CurvePoint{}
	}
	metrics.Calculations.WithLabelValues("curve").Inc()

	writeJSON(w, http.StatusOK, CurveResponse{Points: pts})
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInputs(w, r)
	if !ok {
		return
	}
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		ticker = h.opts.Ticker
	}

	rec := export.NewRecord(h.opts.Now(), ticker, in)
	metrics.Calculations.WithLabelValues("export").Inc()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, export.FileName(rec.Ticker, rec.Date)))
	if err := export.Write(w, rec); err != nil {
		h.opts.Log.Error("export write failed", zap.Error(err))
	}
}

func (h *handler) price(w http.ResponseWriter, r *http.Request) {
	if h.opts.Prices == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	u, ok := h.opts.Prices.LatestUpdate()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, PriceResponse{Symbol: u.Symbol, Price: u.Price, Time: u.Time})
}

// decodeInputs reads position.Inputs from the body. When ?live=<field> is
// set and a live price is known, that price replaces the named field.
func (h *handler) decodeInputs(w http.ResponseWriter, r *http.Request) (position.Inputs, bool) {
	var in position.Inputs
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode inputs: %w", err))
		return in, false
	}

	if live := r.URL.Query().Get("live"); live != "" {
		field, err := position.ParsePriceField(live)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return in, false
		}
		if h.opts.Prices != nil {
			if u, ok := h.opts.Prices.LatestUpdate(); ok {
				in = in.WithPrice(field, u.Price)
			}
		}
	}
	return in, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: strings.TrimSpace(err.Error())})
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
