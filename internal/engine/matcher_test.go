package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRecordingSink returns a Sink that appends every event it receives, in
// delivery order, so tests can assert on the exact fixed emission order §5
// requires.
func newRecordingSink(events *[]any) SinkFunc {
	return func(event any) error {
		*events = append(*events, event)
		return nil
	}
}

func TestDispatchCreateOrderRestsAndReportsNew(t *testing.T) {
	m := NewMatcher(nil)
	var events []any
	trader := NewTrader("t1", newRecordingSink(&events))
	m.AddTrader(trader)

	m.Dispatch("t1", Request{Type: CreateOrder, Side: "BUY", OrderID: 1, Price: 100, Quantity: 10})

	require.NotEmpty(t, events)
	report, ok := events[0].(ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, StatusNew, report.Status)

	// Depth broadcast follows, since t1 is also registered as an observer.
	found := false
	for _, e := range events[1:] {
		if d, ok := e.(DepthUpdate); ok && d.Price == 100 && d.Quantity == 10 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDispatchEmitsAggressorThenCounterpartyThenDepth(t *testing.T) {
	m := NewMatcher(nil)
	var sellerEvents, buyerEvents []any
	var recipients []string // owner of each delivered event, across both sinks
	recording := func(owner string, events *[]any) SinkFunc {
		return func(event any) error {
			*events = append(*events, event)
			recipients = append(recipients, owner)
			return nil
		}
	}
	seller := NewTrader("seller", recording("seller", &sellerEvents))
	buyer := NewTrader("buyer", recording("buyer", &buyerEvents))
	m.AddTrader(seller)
	m.AddTrader(buyer)

	m.Dispatch("seller", Request{Type: CreateOrder, Side: "SELL", OrderID: 1, Price: 100, Quantity: 5})
	// Discard the resting-order NEW report and the depth echo both traders received.
	sellerEvents, buyerEvents, recipients = nil, nil, nil

	m.Dispatch("buyer", Request{Type: CreateOrder, Side: "BUY", OrderID: 2, Price: 100, Quantity: 5})

	// Aggressor's trade, then the counterparty's, then the one depth delta to
	// each observer in registration order (seller registered first).
	require.Equal(t, []string{"buyer", "seller", "seller", "buyer"}, recipients)
	_, ok := sellerEvents[1].(DepthUpdate)
	assert.True(t, ok)
	_, ok = buyerEvents[1].(DepthUpdate)
	assert.True(t, ok)

	require.NotEmpty(t, buyerEvents)
	trade, ok := buyerEvents[0].(Trade)
	require.True(t, ok)
	assert.Equal(t, int64(5), trade.Quantity)

	require.NotEmpty(t, sellerEvents)
	sellerTrade, ok := sellerEvents[0].(Trade)
	require.True(t, ok)
	assert.Equal(t, int64(5), sellerTrade.Quantity)
}

func TestDispatchUnknownMessageType(t *testing.T) {
	m := NewMatcher(nil)
	var events []any
	trader := NewTrader("t1", newRecordingSink(&events))
	m.AddTrader(trader)

	m.Dispatch("t1", Request{Type: "bogus"})

	require.Len(t, events, 1)
	errEvent, ok := events[0].(ErrorEvent)
	require.True(t, ok)
	assert.NotEmpty(t, errEvent.Code)
}

func TestDispatchWrongSide(t *testing.T) {
	m := NewMatcher(nil)
	var events []any
	trader := NewTrader("t1", newRecordingSink(&events))
	m.AddTrader(trader)

	m.Dispatch("t1", Request{Type: CreateOrder, Side: "HOLD", OrderID: 1, Price: 100, Quantity: 1})

	require.Len(t, events, 1)
	_, ok := events[0].(ErrorEvent)
	assert.True(t, ok)
}

func TestDispatchCancelOrder(t *testing.T) {
	m := NewMatcher(nil)
	var events []any
	trader := NewTrader("t1", newRecordingSink(&events))
	m.AddTrader(trader)

	m.Dispatch("t1", Request{Type: CreateOrder, Side: "BUY", OrderID: 1, Price: 100, Quantity: 10})
	events = nil

	m.Dispatch("t1", Request{Type: CancelOrder, OrderID: 1})

	require.NotEmpty(t, events)
	report, ok := events[0].(ExecutionReport)
	require.True(t, ok)
	assert.Equal(t, StatusCanceled, report.Status)
}

func TestDispatchFromUnregisteredTraderIsDropped(t *testing.T) {
	m := NewMatcher(nil)
	assert.NotPanics(t, func() {
		m.Dispatch("ghost", Request{Type: CreateOrder, Side: "BUY", OrderID: 1, Price: 100, Quantity: 1})
	})
}

func TestRemoveTraderPurgesRestingOrdersAndBroadcasts(t *testing.T) {
	m := NewMatcher(nil)
	var traderEvents, observerEvents []any
	trader := NewTrader("t1", newRecordingSink(&traderEvents))
	observer := NewClient("obs", newRecordingSink(&observerEvents))
	m.AddTrader(trader)
	m.AddClient(observer)

	m.Dispatch("t1", Request{Type: CreateOrder, Side: "BUY", OrderID: 1, Price: 100, Quantity: 10})
	observerEvents = nil

	m.RemoveTrader("t1")

	found := false
	for _, e := range observerEvents {
		if d, ok := e.(DepthUpdate); ok && d.Quantity == 0 {
			found = true
		}
	}
	assert.True(t, found)
}
