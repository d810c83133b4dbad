package portfolio

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadUnknownAssetIsZeroPosition(t *testing.T) {
	p := New(1000)

	pos := p.Read("BTC")
	require.Equal(t, "BTC", pos.Asset)
	require.Equal(t, 0.0, pos.Quantity)
	require.Equal(t, 0.0, pos.AvgPrice)
}

func TestApplyOpensAndAverages(t *testing.T) {
	p := New(10_000)

	pos := p.Apply("BTC", 2, 100)
	require.Equal(t, 2.0, pos.Quantity)
	require.Equal(t, 100.0, pos.AvgPrice)

	// Add at a higher price: (2*100 + 2*110) / 4 = 105
	pos = p.Apply("BTC", 2, 110)
	require.Equal(t, 4.0, pos.Quantity)
	require.InDelta(t, 105.0, pos.AvgPrice, 1e-9)

	require.InDelta(t, 10_000-2*100-2*110, p.Cash(), 1e-9)
}

func TestApplyReductionKeepsEntryPrice(t *testing.T) {
	p := New(0)

	p.Apply("ETH", 3, 50)
	pos := p.Apply("ETH", -1, 60)

	require.Equal(t, 2.0, pos.Quantity)
	require.Equal(t, 50.0, pos.AvgPrice)
}

func TestApplyFlatResetsEntryPrice(t *testing.T) {
	p := New(0)

	p.Apply("ETH", 3, 50)
	pos := p.Apply("ETH", -3, 55)

	require.Equal(t, 0.0, pos.Quantity)
	require.Equal(t, 0.0, pos.AvgPrice)
}

func TestApplyCrossThroughFlat(t *testing.T) {
	p := New(0)

	p.Apply("SOL", 2, 20)
	// Sell 5: close the 2 long, remainder is a 3 short opened at 25.
	pos := p.Apply("SOL", -5, 25)

	require.Equal(t, -3.0, pos.Quantity)
	require.Equal(t, 25.0, pos.AvgPrice)
}

// Concurrent fills for the same asset must never lose an update: the
// final quantity is the sum of applied deltas regardless of
// interleaving.
func TestApplyConcurrentFillsNoLostUpdate(t *testing.T) {
	p := New(0)

	const workers = 8
	const fillsPerWorker = 250

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < fillsPerWorker; i++ {
				p.Apply("BTC", 1, 10)
			}
		}()
	}
	wg.Wait()

	pos := p.Read("BTC")
	require.Equal(t, float64(workers*fillsPerWorker), pos.Quantity)
	require.InDelta(t, float64(-workers*fillsPerWorker*10), p.Cash(), 1e-6)
}

func TestSnapshotIsACopy(t *testing.T) {
	p := New(100)
	p.Apply("BTC", 1, 10)

	cash, positions := p.Snapshot()
	require.InDelta(t, 90.0, cash, 1e-9)

	positions["BTC"] = Position{Asset: "BTC", Quantity: 99}
	require.Equal(t, 1.0, p.Read("BTC").Quantity)
}
