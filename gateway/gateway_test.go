package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UchiaGhost/mt5-gateway/broker"
	"github.com/UchiaGhost/mt5-gateway/broker/sim"
	"github.com/UchiaGhost/mt5-gateway/idempotency"
	"github.com/UchiaGhost/mt5-gateway/journal"
	"github.com/UchiaGhost/mt5-gateway/signal"
)

func pips(n int) *int          { return &n }
func price(v float64) *float64 { return &v }

func testAccount(balance float64) broker.AccountSnapshot {
	return broker.AccountSnapshot{
		Login:      1234567,
		Balance:    balance,
		Equity:     balance,
		FreeMargin: balance,
		Currency:   "USD",
		Leverage:   100,
	}
}

func newEngine(t *testing.T, balance float64) *sim.Engine {
	t.Helper()

	e := sim.NewEngine(testAccount(balance))
	for _, meta := range sim.DefaultSymbols() {
		e.AddSymbol(meta)
	}
	e.SetQuote(broker.Quote{
		Symbol: "EURUSD",
		Bid:    1.09980,
		Ask:    1.10000,
		Time:   time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	})
	return e
}

func newGateway(t *testing.T, e *sim.Engine) *Gateway {
	t.Helper()

	return New(e, e, idempotency.NewGuard(time.Hour), journal.Noop{}, Config{
		MinLot:      0.01,
		MaxLot:      100,
		LotStep:     0.01,
		MinStopPips: 5,
	}, zerolog.Nop())
}

func buySignal(key string) signal.TradingSignal {
	return signal.TradingSignal{
		Strategy:       "test",
		Symbol:         "EURUSD",
		Side:           broker.Buy,
		Kind:           signal.Market,
		Risk:           signal.RiskSpec{Percent: 1, MaxRiskPerTrade: 2},
		Stop:           signal.StopSpec{Pips: pips(20)},
		Target:         signal.TargetSpec{Pips: pips(40)},
		IdempotencyKey: key,
	}
}

func TestExecuteSignalFilled(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)

	res := gw.ExecuteSignal(context.Background(), buySignal("k1"))

	require.True(t, res.Success, "unexpected rejection: %s %s", res.Reason, res.ErrorMessage)
	assert.NotEmpty(t, res.OrderID)
	assert.NotEmpty(t, res.PositionID)
	assert.InDelta(t, 5.00, res.LotSize, 1e-9)
	assert.InDelta(t, 1.10000, res.ExecutedPrice, 1e-9)
	require.NotNil(t, res.StopLoss)
	require.NotNil(t, res.TakeProfit)
	assert.InDelta(t, 1.0998, *res.StopLoss, 1e-9)
	assert.InDelta(t, 1.1004, *res.TakeProfit, 1e-9)
	assert.Equal(t, 1, e.Submissions())

	positions, err := gw.GetOpenPositions(context.Background(), "EURUSD")
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.InDelta(t, 5.00, positions[0].Lots, 1e-9)
}

func TestExecuteSignalSellFillsAtBid(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)

	sig := buySignal("k-sell")
	sig.Side = broker.Sell

	res := gw.ExecuteSignal(context.Background(), sig)

	require.True(t, res.Success)
	assert.InDelta(t, 1.09980, res.ExecutedPrice, 1e-9)
	require.NotNil(t, res.StopLoss)
	assert.InDelta(t, 1.10000, *res.StopLoss, 1e-9)
}

func TestExecuteSignalDuplicateKeySequential(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)

	first := gw.ExecuteSignal(context.Background(), buySignal("dup"))
	second := gw.ExecuteSignal(context.Background(), buySignal("dup"))

	require.True(t, first.Success)
	assert.False(t, second.Success)
	assert.Equal(t, DuplicateSignal, second.Reason)
	assert.Equal(t, 1, e.Submissions())
}

func TestExecuteSignalDuplicateKeyConcurrent(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)

	const callers = 16
	results := make([]OrderResult, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = gw.ExecuteSignal(context.Background(), buySignal("race"))
		}()
	}
	close(start)
	wg.Wait()

	var winners, duplicates int
	for _, res := range results {
		if res.Reason == DuplicateSignal {
			duplicates++
		} else {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one caller may pass the guard")
	assert.Equal(t, callers-1, duplicates)
	assert.Equal(t, 1, e.Submissions())
}

func TestExecuteSignalEmptyKeyUnprotected(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 100000)
	gw := newGateway(t, e)

	first := gw.ExecuteSignal(context.Background(), buySignal(""))
	second := gw.ExecuteSignal(context.Background(), buySignal(""))

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Equal(t, 2, e.Submissions())
}

func TestExecuteSignalSymbolUnavailable(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)

	sig := buySignal("k2")
	sig.Symbol = "NOPE"

	res := gw.ExecuteSignal(context.Background(), sig)

	assert.False(t, res.Success)
	assert.Equal(t, SymbolUnavailable, res.Reason)
	assert.Equal(t, 0, e.Submissions())
}

func TestExecuteSignalTradeNotAllowed(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	meta, err := e.GetSymbolMetadata(context.Background(), "EURUSD")
	require.NoError(t, err)
	meta.TradeAllowed = false
	e.AddSymbol(meta)

	gw := newGateway(t, e)
	res := gw.ExecuteSignal(context.Background(), buySignal("k3"))

	assert.False(t, res.Success)
	assert.Equal(t, TradeNotAllowed, res.Reason)
	assert.Equal(t, 0, e.Submissions())
}

func TestExecuteSignalPriceUnavailable(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)

	sig := buySignal("k4")
	sig.Symbol = "GBPUSD" // symbol known, but no quote loaded

	res := gw.ExecuteSignal(context.Background(), sig)

	assert.False(t, res.Success)
	assert.Equal(t, PriceUnavailable, res.Reason)
	assert.Equal(t, 0, e.Submissions())
}

func TestExecuteSignalInvalidStopDistance(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)

	sig := buySignal("k5")
	sig.Stop = signal.StopSpec{} // no stop at all: zero distance
	sig.Target = signal.TargetSpec{}

	res := gw.ExecuteSignal(context.Background(), sig)

	assert.False(t, res.Success)
	assert.Equal(t, InvalidStopDistance, res.Reason)
	assert.Equal(t, 0, e.Submissions(), "no broker call on sizing failure")
}

func TestExecuteSignalExplicitStopPriceSizesByDistance(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)

	sig := buySignal("k6")
	// 20 points below the 1.10000 ask.
	sig.Stop = signal.StopSpec{Price: price(1.09980)}
	sig.Target = signal.TargetSpec{}

	res := gw.ExecuteSignal(context.Background(), sig)

	require.True(t, res.Success, "unexpected rejection: %s %s", res.Reason, res.ErrorMessage)
	assert.InDelta(t, 5.00, res.LotSize, 1e-9)
}

func TestExecuteSignalInsufficientMargin(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	acct := testAccount(10000)
	acct.FreeMargin = 4000 // 5 lots of EURUSD at 1:100 need 5000
	e.SetAccount(acct)

	gw := newGateway(t, e)
	res := gw.ExecuteSignal(context.Background(), buySignal("k7"))

	assert.False(t, res.Success)
	assert.Equal(t, InsufficientMargin, res.Reason)
	assert.Equal(t, 0, e.Submissions(), "order must never reach the broker")
}

func TestExecuteSignalBrokerRejectedVerbatim(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	e.RejectNext("requote")

	gw := newGateway(t, e)
	res := gw.ExecuteSignal(context.Background(), buySignal("k8"))

	assert.False(t, res.Success)
	assert.Equal(t, BrokerRejected, res.Reason)
	assert.Equal(t, "requote", res.ErrorMessage)
	assert.Equal(t, 1, e.Submissions())
}

func TestExecuteSignalBrokerUnavailable(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	e.FailNext(errors.New("deadline exceeded"))

	gw := newGateway(t, e)
	res := gw.ExecuteSignal(context.Background(), buySignal("k9"))

	assert.False(t, res.Success)
	assert.Equal(t, BrokerUnavailable, res.Reason)

	// The key was admitted before submission, so a resend is still a
	// duplicate even though the original order's fate is unknown.
	again := gw.ExecuteSignal(context.Background(), buySignal("k9"))
	assert.Equal(t, DuplicateSignal, again.Reason)
}

func TestPassThroughsDelegateWithoutRiskLogic(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := newGateway(t, e)
	ctx := context.Background()

	res := gw.ExecuteSignal(ctx, buySignal("k10"))
	require.True(t, res.Success)

	// Modify far tighter than min_stop_pips would allow in the pipeline:
	// pass-throughs apply no clamping.
	tight := 1.09999
	require.NoError(t, gw.ModifyPosition(ctx, res.PositionID, &tight, nil))

	positions, err := gw.GetOpenPositions(ctx, "")
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.InDelta(t, tight, positions[0].StopLoss, 1e-9)

	require.NoError(t, gw.ClosePosition(ctx, res.PositionID, nil))
	positions, err = gw.GetOpenPositions(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestExecuteSignalJournalsTerminalOutcomes(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	jnl := &captureJournal{}
	gw := New(e, e, idempotency.NewGuard(time.Hour), jnl, Config{
		MinLot:      0.01,
		MaxLot:      100,
		LotStep:     0.01,
		MinStopPips: 5,
	}, zerolog.Nop())

	gw.ExecuteSignal(context.Background(), buySignal("j1"))
	gw.ExecuteSignal(context.Background(), buySignal("j1"))

	require.Len(t, jnl.records, 2)
	assert.Equal(t, "filled", jnl.records[0].Status)
	assert.InDelta(t, 5.00, jnl.records[0].LotSize, 1e-9)
	assert.Equal(t, string(DuplicateSignal), jnl.records[1].Status)
}

func TestExecuteSignalAccountUnavailable(t *testing.T) {
	t.Parallel()

	e := newEngine(t, 10000)
	gw := New(accountlessData{e}, e, idempotency.NewGuard(time.Hour), journal.Noop{}, Config{
		MinLot:      0.01,
		MaxLot:      100,
		LotStep:     0.01,
		MinStopPips: 5,
	}, zerolog.Nop())

	res := gw.ExecuteSignal(context.Background(), buySignal("k11"))

	assert.False(t, res.Success)
	assert.Equal(t, AccountUnavailable, res.Reason)
	assert.Equal(t, 0, e.Submissions())
}

// accountlessData simulates a terminal that serves symbols and quotes but
// cannot read the account.
type accountlessData struct {
	*sim.Engine
}

func (accountlessData) GetAccountSnapshot(context.Context) (broker.AccountSnapshot, error) {
	return broker.AccountSnapshot{}, broker.ErrAccountUnavailable
}

type captureJournal struct {
	mu      sync.Mutex
	records []journal.ExecutionRecord
}

func (j *captureJournal) RecordExecution(r journal.ExecutionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, r)
	return nil
}

func (j *captureJournal) Close() error { return nil }
