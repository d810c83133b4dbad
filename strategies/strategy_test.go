package strategies

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tradeloop/market"
	"tradeloop/orders"
	"tradeloop/portfolio"
)

func tick(s SignalGenerator, pos portfolio.Position, open, close float64) (orders.TradeSignal, bool) {
	out := s.GenerateSignal(SystemCtx{
		Position: pos,
		Candle:   market.Candle{Asset: pos.Asset, Open: open, Close: close},
	})
	if out.IsNone() {
		return orders.TradeSignal{}, false
	}
	return out.Unwrap(), true
}

func TestNewUnknownStrategy(t *testing.T) {
	_, err := New("vwap", "BTC", 1, nil)
	require.Error(t, err)
}

func TestNewRejectsNonPositiveQuantity(t *testing.T) {
	_, err := New("breakout", "BTC", 0, nil)
	require.Error(t, err)
}

func TestFactoryDispatch(t *testing.T) {
	for name, want := range map[string]string{
		"breakout": "BREAKOUT(BTC)",
		"rsi":      "RSI(14)",
		"momentum": "MOMENTUM(5,20)",
	} {
		s, err := New(name, "BTC", 1, nil)
		require.NoError(t, err)
		require.Equal(t, want, s.Name())
	}
}

func TestBreakoutBuysOnBullishCandleOnly(t *testing.T) {
	s := NewBreakout("BTC", 2)
	flat := portfolio.Position{Asset: "BTC"}

	sig, ok := tick(s, flat, 10, 12)
	require.True(t, ok)
	require.Equal(t, orders.SideBuy, sig.Side)
	require.Equal(t, 2.0, sig.Quantity)
	require.Equal(t, 12.0, sig.PriceHint)

	_, ok = tick(s, flat, 12, 11)
	require.False(t, ok)

	_, ok = tick(s, flat, 11, 11)
	require.False(t, ok)
}

func TestRSIStrategyBuysOversoldWhenFlat(t *testing.T) {
	s, err := New("rsi", "ETH", 1, Params{"period": 3})
	require.NoError(t, err)

	flat := portfolio.Position{Asset: "ETH"}

	// Strictly falling closes push RSI to 0.
	var got []orders.TradeSignal
	price := 100.0
	for i := 0; i < 6; i++ {
		price -= 2
		if sig, ok := tick(s, flat, price+2, price); ok {
			got = append(got, sig)
		}
	}

	require.NotEmpty(t, got)
	require.Equal(t, orders.SideBuy, got[0].Side)
}

func TestRSIStrategySellsOverboughtWhenLong(t *testing.T) {
	s, err := New("rsi", "ETH", 1, Params{"period": 3})
	require.NoError(t, err)

	long := portfolio.Position{Asset: "ETH", Quantity: 4, AvgPrice: 90}

	var got []orders.TradeSignal
	price := 100.0
	for i := 0; i < 6; i++ {
		price += 2
		if sig, ok := tick(s, long, price-2, price); ok {
			got = append(got, sig)
		}
	}

	require.NotEmpty(t, got)
	require.Equal(t, orders.SideSell, got[0].Side)
	// Sells the whole position, not the configured unit size.
	require.Equal(t, 4.0, got[0].Quantity)
}

func TestMomentumSignalsOnCrossEventOnly(t *testing.T) {
	s := NewMomentum(MomentumConfig{
		Asset:      "SOL",
		Quantity:   1,
		FastPeriod: 2,
		SlowPeriod: 4,
	})
	flat := portfolio.Position{Asset: "SOL"}

	var buys int

	// Downtrend to establish the baseline, then a sustained uptrend.
	price := 50.0
	for i := 0; i < 10; i++ {
		price -= 1
		if sig, ok := tick(s, flat, price+1, price); ok && sig.Side == orders.SideBuy {
			buys++
		}
	}
	for i := 0; i < 20; i++ {
		price += 1
		if sig, ok := tick(s, flat, price-1, price); ok && sig.Side == orders.SideBuy {
			buys++
		}
	}

	// One cross up, one buy — not a buy per candle.
	require.Equal(t, 1, buys)
}

func TestMomentumCrossDownWithoutPositionIsSilent(t *testing.T) {
	s := NewMomentum(MomentumConfig{
		Asset:      "SOL",
		Quantity:   1,
		FastPeriod: 2,
		SlowPeriod: 4,
	})
	flat := portfolio.Position{Asset: "SOL"}

	price := 50.0
	for i := 0; i < 10; i++ {
		price += 1
		tick(s, flat, price-1, price)
	}
	for i := 0; i < 20; i++ {
		price -= 1
		if sig, ok := tick(s, flat, price+1, price); ok {
			require.NotEqual(t, orders.SideSell, sig.Side)
		}
	}
}
