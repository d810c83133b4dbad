package engine

import "tradeloop/market"

// Dispatch maps an asset id to the inbound channel of the trader that
// owns it. Lookup is O(1) and there is no fan-out: a candle for asset
// X reaches X's trader and nobody else. The table is built once by the
// orchestrator and handed to the feed generator — it is plain state,
// not a registry.
type Dispatch struct {
	routes map[string]chan<- market.Candle
}

func NewDispatch() *Dispatch {
	return &Dispatch{routes: make(map[string]chan<- market.Candle)}
}

// Add registers the owning trader's channel for an asset. Asset ids
// are unique; registering one twice is a wiring bug.
func (d *Dispatch) Add(asset string, ch chan<- market.Candle) {
	if _, ok := d.routes[asset]; ok {
		panic("dispatch: duplicate asset " + asset)
	}
	d.routes[asset] = ch
}

// Route returns the sender for an asset.
func (d *Dispatch) Route(asset string) (chan<- market.Candle, bool) {
	ch, ok := d.routes[asset]
	return ch, ok
}

// Assets lists the registered asset ids.
func (d *Dispatch) Assets() []string {
	out := make([]string, 0, len(d.routes))
	for asset := range d.routes {
		out = append(out, asset)
	}
	return out
}
