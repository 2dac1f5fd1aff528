// Package gateway orchestrates the signal-to-order pipeline: idempotency
// guarding, position sizing, stop/target resolution, margin gating, and
// submission to the broker. Each ExecuteSignal call walks the state machine
// once, forward only, and returns a normalized OrderResult.
package gateway

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/UchiaGhost/mt5-gateway/broker"
	"github.com/UchiaGhost/mt5-gateway/idempotency"
	"github.com/UchiaGhost/mt5-gateway/journal"
	"github.com/UchiaGhost/mt5-gateway/pkg/id"
	"github.com/UchiaGhost/mt5-gateway/risk"
	"github.com/UchiaGhost/mt5-gateway/signal"
)

// Config holds the execution limits the orchestrator enforces.
type Config struct {
	MinLot      float64
	MaxLot      float64
	LotStep     float64
	MinStopPips float64
}

// Gateway ties the pipeline components together. All collaborators are
// injected; the gateway holds no hidden process-wide state.
type Gateway struct {
	data  broker.DataProvider
	sub   broker.Submitter
	guard *idempotency.Guard
	jnl   journal.Journal
	cfg   Config
	log   zerolog.Logger
}

// New constructs a Gateway. A nil journal disables execution journaling.
func New(data broker.DataProvider, sub broker.Submitter, guard *idempotency.Guard, jnl journal.Journal, cfg Config, log zerolog.Logger) *Gateway {
	if jnl == nil {
		jnl = journal.Noop{}
	}
	return &Gateway{
		data:  data,
		sub:   sub,
		guard: guard,
		jnl:   jnl,
		cfg:   cfg,
		log:   log,
	}
}

// ExecuteSignal runs one signal through the pipeline and returns a terminal
// result. The idempotency record is written before any broker call, so a
// crash after admission still prevents replay: at-most-once, at the cost of
// a possibly dropped signal.
func (g *Gateway) ExecuteSignal(ctx context.Context, sig signal.TradingSignal) OrderResult {
	log := g.log.With().
		Str("strategy", sig.Strategy).
		Str("symbol", sig.Symbol).
		Str("side", string(sig.Side)).
		Str("key", sig.IdempotencyKey).
		Logger()

	state := StateReceived

	if !g.guard.Admit(sig.IdempotencyKey) {
		return g.reject(log, sig, state, DuplicateSignal, "idempotency key already used")
	}
	state = StateKeyChecked

	sym, err := g.data.GetSymbolMetadata(ctx, sig.Symbol)
	if err != nil {
		return g.reject(log, sig, state, SymbolUnavailable, "symbol "+sig.Symbol+" unavailable: "+err.Error())
	}
	if !sym.TradeAllowed {
		return g.reject(log, sig, state, TradeNotAllowed, "trading disabled for "+sig.Symbol)
	}
	state = StateSymbolResolved

	price, err := g.data.GetCurrentPrice(ctx, sig.Symbol, sig.Side)
	if err != nil {
		return g.reject(log, sig, state, PriceUnavailable, "no current price for "+sig.Symbol+": "+err.Error())
	}
	state = StatePriceResolved

	acct, err := g.data.GetAccountSnapshot(ctx)
	if err != nil {
		return g.reject(log, sig, state, AccountUnavailable, "account snapshot unavailable: "+err.Error())
	}

	var stopPoints float64
	switch {
	case sig.Stop.Pips != nil:
		stopPoints = float64(*sig.Stop.Pips)
	case sig.Stop.Price != nil:
		stopPoints = math.Abs(price-*sig.Stop.Price) / sym.Point
	}

	lot, err := risk.Size(sym, sig.Risk, acct, stopPoints, risk.Limits{
		MinLot:  g.cfg.MinLot,
		MaxLot:  g.cfg.MaxLot,
		LotStep: g.cfg.LotStep,
	})
	if err != nil {
		return g.reject(log, sig, state, InvalidStopDistance, "cannot size position: "+err.Error())
	}
	state = StateSized

	stopPrice, targetPrice := risk.ResolveStops(sym, sig.Side, price, sig.Stop, sig.Target, g.cfg.MinStopPips)
	state = StateStopsResolved

	if !risk.CheckMargin(sym, acct, lot) {
		return g.reject(log, sig, state, InsufficientMargin, "free margin does not cover required margin")
	}
	state = StateMarginChecked

	fill, err := g.sub.SubmitMarketOrder(ctx, broker.MarketOrderRequest{
		Symbol:     sig.Symbol,
		Side:       sig.Side,
		Lots:       lot,
		StopLoss:   stopPrice,
		TakeProfit: targetPrice,
		Magic:      sig.Magic,
		Comment:    sig.Comment,
	})
	state = StateSubmitted
	if err != nil {
		var rej *broker.RejectError
		if errors.As(err, &rej) {
			res := OrderResult{
				Success:      false,
				Reason:       BrokerRejected,
				LotSize:      lot,
				StopLoss:     stopPrice,
				TakeProfit:   targetPrice,
				ErrorMessage: rej.Reason,
			}
			g.record(sig, res)
			log.Warn().
				Str("state", state.String()).
				Str("reason", string(BrokerRejected)).
				Msg(rej.Reason)
			return res
		}
		// No definitive answer: the order may or may not exist.
		return g.reject(log, sig, state, BrokerUnavailable, "broker did not respond: "+err.Error())
	}

	res := OrderResult{
		Success:       true,
		OrderID:       fill.OrderID,
		PositionID:    fill.PositionID,
		ExecutedPrice: fill.Price,
		StopLoss:      stopPrice,
		TakeProfit:    targetPrice,
		LotSize:       lot,
		ServerTime:    fill.ServerTime,
	}
	g.record(sig, res)

	log.Info().
		Str("state", StateFilled.String()).
		Str("order_id", res.OrderID).
		Float64("lot", res.LotSize).
		Float64("price", res.ExecutedPrice).
		Msg("order filled")

	return res
}

// GetOpenPositions delegates to the broker; no risk logic applies.
func (g *Gateway) GetOpenPositions(ctx context.Context, symbol string) ([]broker.Position, error) {
	return g.sub.GetOpenPositions(ctx, symbol)
}

// ModifyPosition delegates to the broker; no risk logic applies.
func (g *Gateway) ModifyPosition(ctx context.Context, ticket string, stopLoss, takeProfit *float64) error {
	return g.sub.ModifyPosition(ctx, ticket, stopLoss, takeProfit)
}

// ClosePosition delegates to the broker; no risk logic applies.
func (g *Gateway) ClosePosition(ctx context.Context, ticket string, lots *float64) error {
	return g.sub.ClosePosition(ctx, ticket, lots)
}

func (g *Gateway) reject(log zerolog.Logger, sig signal.TradingSignal, last State, reason Reason, msg string) OrderResult {
	res := OrderResult{
		Success:      false,
		Reason:       reason,
		ErrorMessage: msg,
	}
	g.record(sig, res)

	log.Warn().
		Str("state", last.String()).
		Str("reason", string(reason)).
		Msg(msg)

	return res
}

func (g *Gateway) record(sig signal.TradingSignal, res OrderResult) {
	rec := journal.ExecutionRecord{
		ID:         id.New(),
		Strategy:   sig.Strategy,
		Symbol:     sig.Symbol,
		Side:       string(sig.Side),
		Status:     "filled",
		LotSize:    res.LotSize,
		Price:      res.ExecutedPrice,
		OrderID:    res.OrderID,
		PositionID: res.PositionID,
		Error:      res.ErrorMessage,
		Time:       res.ServerTime,
	}
	if !res.Success {
		rec.Status = string(res.Reason)
	}
	if res.StopLoss != nil {
		rec.StopLoss = *res.StopLoss
	}
	if res.TakeProfit != nil {
		rec.TakeProfit = *res.TakeProfit
	}
	if rec.Time.IsZero() {
		rec.Time = timeNow()
	}

	if err := g.jnl.RecordExecution(rec); err != nil {
		g.log.Error().Err(err).Str("execution", rec.ID).Msg("journal write failed")
	}
}
