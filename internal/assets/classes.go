package assets

// Class identifies an asset class handled by the pipeline. The set is
// closed: every lookup goes through the switch in Meta, so an unknown
// class can never leak static metadata it does not have.
type Class string

const (
	Stocks      Class = "stocks"
	Crypto      Class = "crypto"
	Forex       Class = "forex"
	Commodities Class = "commodities"
	Bonds       Class = "bonds"
	Indices     Class = "indices"
)

// Meta carries the static per-class configuration: the tradeable symbol
// universe, whether quotes are bound to an exchange session, the minimum
// dollar-volume gate used by the scan scorer, and fallback picks for the
// universe builder when neither live performance nor regime picks apply.
type Meta struct {
	Display         string
	Symbols         []string
	SessionBound    bool
	MinDollarVolume float64
	Fallback        []string
}

// All returns every known class in presentation order.
func All() []Class {
	return []Class{Stocks, Crypto, Forex, Commodities, Bonds, Indices}
}

// Valid reports whether c is a member of the closed enumeration.
func Valid(c Class) bool {
	switch c {
	case Stocks, Crypto, Forex, Commodities, Bonds, Indices:
		return true
	}
	return false
}

// Meta returns the static metadata for the class. Unknown classes get a
// zero Meta so callers short-circuit to neutral results instead of
// guessing.
func (c Class) Meta() Meta {
	switch c {
	case Stocks:
		return Meta{
			Display:         "Stocks",
			Symbols:         []string{"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META", "JPM", "XOM", "JNJ", "PG"},
			SessionBound:    true,
			MinDollarVolume: 5_000_000,
			Fallback:        []string{"AAPL", "MSFT"},
		}
	case Crypto:
		return Meta{
			Display:         "Crypto",
			Symbols:         []string{"BTC/USDT", "ETH/USDT", "SOL/USDT", "BNB/USDT", "XRP/USDT", "LINK/USDT"},
			SessionBound:    false,
			MinDollarVolume: 1_000_000,
			Fallback:        []string{"BTC/USDT", "ETH/USDT"},
		}
	case Forex:
		return Meta{
			Display:         "Forex",
			Symbols:         []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD", "USDCHF"},
			SessionBound:    false,
			MinDollarVolume: 10_000_000,
			Fallback:        []string{"EURUSD", "USDJPY"},
		}
	case Commodities:
		return Meta{
			Display:         "Commodities",
			Symbols:         []string{"XAUUSD", "XAGUSD", "CL=F", "NG=F", "HG=F", "ZW=F"},
			SessionBound:    false,
			MinDollarVolume: 2_000_000,
			Fallback:        []string{"XAUUSD", "CL=F"},
		}
	case Bonds:
		return Meta{
			Display:         "Bonds",
			Symbols:         []string{"TLT", "IEF", "SHY", "LQD", "HYG", "TIP"},
			SessionBound:    true,
			MinDollarVolume: 2_000_000,
			Fallback:        []string{"TLT", "IEF"},
		}
	case Indices:
		return Meta{
			Display:         "Indices",
			Symbols:         []string{"SPY", "QQQ", "IWM", "DIA", "EFA", "EEM"},
			SessionBound:    true,
			MinDollarVolume: 20_000_000,
			Fallback:        []string{"SPY", "QQQ"},
		}
	}
	return Meta{}
}

// ClassOf returns the class owning the symbol, or ("", false).
func ClassOf(symbol string) (Class, bool) {
	for _, c := range All() {
		for _, s := range c.Meta().Symbols {
			if s == symbol {
				return c, true
			}
		}
	}
	return "", false
}
