// Package signal defines the trading-signal request type and its
// validation rules. A TradingSignal is immutable once normalized; the
// gateway never mutates it.
package signal

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/UchiaGhost/mt5-gateway/broker"
	"github.com/UchiaGhost/mt5-gateway/pkg/id"
)

// OrderKind is the requested order type. Only market orders are executed
// immediately; pending kinds carry an explicit limit price.
type OrderKind string

const (
	Market    OrderKind = "market"
	Limit     OrderKind = "limit"
	Stop      OrderKind = "stop"
	StopLimit OrderKind = "stop_limit"
)

// RiskSpec describes how much of the account a signal may risk.
// FixedAmount, when set, overrides Percent. MaxRiskPerTrade caps the
// resulting risk amount regardless of which source produced it.
type RiskSpec struct {
	Percent         float64  `json:"percent" yaml:"percent" validate:"gte=0.1,lte=10"`
	FixedAmount     *float64 `json:"fixed_amount,omitempty" yaml:"fixed_amount,omitempty" validate:"omitempty,gt=0"`
	MaxRiskPerTrade float64  `json:"max_risk_per_trade" yaml:"max_risk_per_trade" default:"2.0" validate:"gte=0.1,lte=5"`
}

// StopSpec describes the stop-loss. Pips take precedence over Price when
// both are set. ATRMultiplier is accepted for volatility-based stops but is
// resolved by a volatility collaborator, not by the execution core.
type StopSpec struct {
	Pips          *int     `json:"pips,omitempty" yaml:"pips,omitempty" validate:"omitempty,gte=1,lte=1000"`
	Price         *float64 `json:"price,omitempty" yaml:"price,omitempty" validate:"omitempty,gt=0"`
	ATRMultiplier *float64 `json:"atr_multiplier,omitempty" yaml:"atr_multiplier,omitempty" validate:"omitempty,gte=0.5,lte=5"`
}

// TargetSpec describes the take-profit. An explicit Price wins, then Pips,
// then RiskRewardRatio relative to the resolved stop. All three unset means
// the caller wants no target, which is preserved as-is: the core never
// invents a level.
type TargetSpec struct {
	Pips            *int     `json:"pips,omitempty" yaml:"pips,omitempty" validate:"omitempty,gte=1,lte=1000"`
	Price           *float64 `json:"price,omitempty" yaml:"price,omitempty" validate:"omitempty,gt=0"`
	RiskRewardRatio *float64 `json:"risk_reward_ratio,omitempty" yaml:"risk_reward_ratio,omitempty" validate:"omitempty,gte=0.5,lte=10"`
}

// TradingSignal is one request to open a position.
type TradingSignal struct {
	Strategy       string      `json:"strategy" yaml:"strategy" validate:"required,max=50"`
	Symbol         string      `json:"symbol" yaml:"symbol" validate:"required,min=3,max=20"`
	Side           broker.Side `json:"side" yaml:"side" validate:"required,oneof=buy sell"`
	Kind           OrderKind   `json:"type" yaml:"type" default:"market" validate:"oneof=market limit stop stop_limit"`
	Risk           RiskSpec    `json:"risk" yaml:"risk"`
	Stop           StopSpec    `json:"sl" yaml:"sl"`
	Target         TargetSpec  `json:"tp" yaml:"tp"`
	Price          *float64    `json:"price,omitempty" yaml:"price,omitempty" validate:"omitempty,gt=0"`
	Comment        string      `json:"comment" yaml:"comment" validate:"max=100"`
	IdempotencyKey string      `json:"idempotency_key" yaml:"idempotency_key" validate:"max=100"`
	Magic          int         `json:"magic_number" yaml:"magic_number" validate:"gte=0,lte=999999"`
}

var validate = validator.New()

// Normalize fills zero-valued fields with their defaults and generates an
// idempotency key when the caller did not supply one. Callers that want an
// unprotected signal must skip Normalize and pass an empty key explicitly.
func (s *TradingSignal) Normalize() error {
	if err := defaults.Set(s); err != nil {
		return fmt.Errorf("signal defaults: %w", err)
	}
	if s.IdempotencyKey == "" {
		s.IdempotencyKey = id.New()
	}
	return nil
}

// Validate checks the signal against the field constraints above.
func (s *TradingSignal) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid signal: %w", err)
	}
	return nil
}
