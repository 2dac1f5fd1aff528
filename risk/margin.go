package risk

import (
	"math"

	"github.com/UchiaGhost/mt5-gateway/broker"
)

// RequiredMargin estimates the collateral a candidate order ties up. The
// formula depends on the symbol's margin mode:
//
//	forex:   contract_size * lots / leverage
//	futures: contract_size * lots * margin_rate
//	other:   broker-quoted per-lot margin * lots
//
// This is a pre-trade estimate only; the broker remains the source of truth
// at submission time.
func RequiredMargin(sym broker.SymbolMetadata, acct broker.AccountSnapshot, lots float64) float64 {
	switch sym.MarginMode {
	case broker.MarginForex:
		if acct.Leverage <= 0 {
			return math.Inf(1)
		}
		return sym.ContractSize * lots / float64(acct.Leverage)
	case broker.MarginFutures:
		return sym.ContractSize * lots * sym.MarginRate
	default:
		return sym.MarginRequired * lots
	}
}

// CheckMargin reports whether the account's free margin covers the
// estimated requirement for the candidate order.
func CheckMargin(sym broker.SymbolMetadata, acct broker.AccountSnapshot, lots float64) bool {
	return acct.FreeMargin >= RequiredMargin(sym, acct, lots)
}
