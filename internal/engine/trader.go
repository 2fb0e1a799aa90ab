package engine

// Trader is a registered participant: an identity, a single write-sink for
// execution reports, and (implicitly, via the book's containers) the set of
// (trader, orderId) keys it currently has resting. A Trader is also a
// Client, so by default it observes depth broadcasts unless the host chose
// not to register it as one (§4.5).
type Trader struct {
	ID   string
	Sink Sink
}

// NewTrader creates a trader identity bound to a write-sink. It is not
// registered with any Matcher until AddTrader is called.
func NewTrader(id string, sink Sink) *Trader {
	return &Trader{ID: id, Sink: sink}
}

// AsClient returns a Client view of this trader so it can also be
// registered as a depth observer.
func (t *Trader) AsClient() *Client {
	return &Client{ID: t.ID, Sink: t.Sink}
}

// notify delivers an execution report or trade to the trader, swallowing
// any sink failure (§4.5, §7): the book's state is already committed by the
// time this is called.
func (t *Trader) notify(log errorLogger, event any) {
	if err := t.Sink.Send(event); err != nil && log != nil {
		log.sinkError(t.ID, err)
	}
}

// orderKey is the secondary index key for a resting order: unique across
// both sides of the book.
type orderKey struct {
	traderID string
	orderID  int64
}
