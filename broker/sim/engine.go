// Package sim is a deterministic in-memory broker. It implements both
// broker.DataProvider and broker.Submitter, fills market orders at the
// stored quote, and tracks an account with margin accounting, which makes
// it the backend for the demo CLI and the test double for the gateway.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/UchiaGhost/mt5-gateway/broker"
	"github.com/UchiaGhost/mt5-gateway/pkg/id"
	"github.com/UchiaGhost/mt5-gateway/risk"
)

type Engine struct {
	mu        sync.Mutex
	acct      broker.AccountSnapshot
	symbols   map[string]broker.SymbolMetadata
	quotes    map[string]broker.Quote
	positions map[string]*broker.Position

	// scripted failure for the next submission
	nextReject string
	nextErr    error
	submits    int
}

var (
	_ broker.DataProvider = (*Engine)(nil)
	_ broker.Submitter    = (*Engine)(nil)
)

func NewEngine(acct broker.AccountSnapshot) *Engine {
	if acct.FreeMargin == 0 {
		acct.FreeMargin = acct.Equity
	}
	return &Engine{
		acct:      acct,
		symbols:   make(map[string]broker.SymbolMetadata),
		quotes:    make(map[string]broker.Quote),
		positions: make(map[string]*broker.Position),
	}
}

// AddSymbol registers or replaces symbol metadata.
func (e *Engine) AddSymbol(meta broker.SymbolMetadata) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.symbols[meta.Name] = meta
}

// SetQuote stores the current bid/ask for a symbol.
func (e *Engine) SetQuote(q broker.Quote) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quotes[q.Symbol] = q
}

// SetAccount replaces the account snapshot.
func (e *Engine) SetAccount(acct broker.AccountSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.acct = acct
}

// RejectNext makes the next SubmitMarketOrder fail with a broker rejection
// carrying the given reason.
func (e *Engine) RejectNext(reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextReject = reason
}

// FailNext makes the next SubmitMarketOrder fail with err, simulating an
// unreachable broker.
func (e *Engine) FailNext(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextErr = err
}

// Submissions returns how many times SubmitMarketOrder was invoked.
func (e *Engine) Submissions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submits
}

func (e *Engine) GetSymbolMetadata(ctx context.Context, symbol string) (broker.SymbolMetadata, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	meta, ok := e.symbols[symbol]
	if !ok {
		return broker.SymbolMetadata{}, fmt.Errorf("%w: %s", broker.ErrSymbolNotFound, symbol)
	}
	return meta, nil
}

func (e *Engine) GetCurrentPrice(ctx context.Context, symbol string, side broker.Side) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, ok := e.quotes[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s", broker.ErrPriceUnavailable, symbol)
	}
	if side == broker.Buy {
		return q.Ask, nil
	}
	return q.Bid, nil
}

func (e *Engine) GetAccountSnapshot(ctx context.Context) (broker.AccountSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acct := e.acct
	acct.ServerTime = e.serverTimeLocked()
	return acct, nil
}

func (e *Engine) SubmitMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (broker.OrderFill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.submits++

	if e.nextErr != nil {
		err := e.nextErr
		e.nextErr = nil
		return broker.OrderFill{}, err
	}
	if e.nextReject != "" {
		reason := e.nextReject
		e.nextReject = ""
		return broker.OrderFill{}, &broker.RejectError{Reason: reason}
	}

	meta, ok := e.symbols[req.Symbol]
	if !ok {
		return broker.OrderFill{}, &broker.RejectError{Reason: "unknown symbol " + req.Symbol}
	}
	q, ok := e.quotes[req.Symbol]
	if !ok {
		return broker.OrderFill{}, &broker.RejectError{Reason: "no quote for " + req.Symbol}
	}

	required := risk.RequiredMargin(meta, e.acct, req.Lots)
	if e.acct.FreeMargin < required {
		return broker.OrderFill{}, &broker.RejectError{Reason: "not enough money"}
	}

	fillPrice := q.Ask
	if req.Side == broker.Sell {
		fillPrice = q.Bid
	}

	ticket := id.New()
	pos := &broker.Position{
		Ticket:    ticket,
		Symbol:    req.Symbol,
		Side:      req.Side,
		Lots:      req.Lots,
		OpenPrice: fillPrice,
		Price:     fillPrice,
		Magic:     req.Magic,
		Comment:   req.Comment,
		OpenTime:  e.serverTimeLocked(),
	}
	if req.StopLoss != nil {
		pos.StopLoss = *req.StopLoss
	}
	if req.TakeProfit != nil {
		pos.TakeProfit = *req.TakeProfit
	}
	e.positions[ticket] = pos

	e.acct.Margin += required
	e.acct.FreeMargin = e.acct.Equity - e.acct.Margin
	if e.acct.Margin > 0 {
		e.acct.MarginLevel = e.acct.Equity / e.acct.Margin * 100
	}

	return broker.OrderFill{
		OrderID:    ticket,
		PositionID: ticket,
		Price:      fillPrice,
		ServerTime: pos.OpenTime,
	}, nil
}

func (e *Engine) ModifyPosition(ctx context.Context, ticket string, stopLoss, takeProfit *float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.positions[ticket]
	if !ok {
		return fmt.Errorf("%w: %s", broker.ErrPositionNotFound, ticket)
	}
	if stopLoss != nil {
		pos.StopLoss = *stopLoss
	}
	if takeProfit != nil {
		pos.TakeProfit = *takeProfit
	}
	return nil
}

func (e *Engine) ClosePosition(ctx context.Context, ticket string, lots *float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, ok := e.positions[ticket]
	if !ok {
		return fmt.Errorf("%w: %s", broker.ErrPositionNotFound, ticket)
	}

	closeLots := pos.Lots
	if lots != nil {
		if *lots <= 0 || *lots > pos.Lots {
			return fmt.Errorf("close position %s: invalid volume %v", ticket, *lots)
		}
		closeLots = *lots
	}

	meta := e.symbols[pos.Symbol]
	released := risk.RequiredMargin(meta, e.acct, closeLots)

	if closeLots == pos.Lots {
		delete(e.positions, ticket)
	} else {
		pos.Lots -= closeLots
	}

	e.acct.Margin -= released
	if e.acct.Margin < 0 {
		e.acct.Margin = 0
	}
	e.acct.FreeMargin = e.acct.Equity - e.acct.Margin
	if e.acct.Margin > 0 {
		e.acct.MarginLevel = e.acct.Equity / e.acct.Margin * 100
	} else {
		e.acct.MarginLevel = 0
	}
	return nil
}

func (e *Engine) GetOpenPositions(ctx context.Context, symbol string) ([]broker.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]broker.Position, 0, len(e.positions))
	for _, pos := range e.positions {
		if symbol != "" && pos.Symbol != symbol {
			continue
		}
		p := *pos
		if q, ok := e.quotes[p.Symbol]; ok {
			// Longs are marked at BID, shorts at ASK.
			if p.Side == broker.Buy {
				p.Price = q.Bid
			} else {
				p.Price = q.Ask
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// serverTimeLocked returns the latest quote time, or wall-clock time when
// no quotes are loaded. Callers hold e.mu.
func (e *Engine) serverTimeLocked() time.Time {
	var latest time.Time
	for _, q := range e.quotes {
		if q.Time.After(latest) {
			latest = q.Time
		}
	}
	if latest.IsZero() {
		latest = time.Now().UTC()
	}
	return latest
}
