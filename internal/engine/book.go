package engine

import (
	"time"

	"github.com/darcyg/PyXchange/pkg/errors"
)

// Book owns the two per-side containers and the last-broadcast depth
// snapshot, so it can diff and emit only changed levels (§4.4).
type Book struct {
	bid *container
	ask *container

	// lastBroadcast mirrors what every registered client has last been told
	// about each price level on each side, so depth() can emit edge-triggered
	// deltas only.
	lastBroadcast map[depthKey]int64

	now func() time.Time
}

type depthKey struct {
	side  Side
	price int64
}

// NewBook constructs an empty order book.
func NewBook() *Book {
	return &Book{
		bid:           newContainer(Bid),
		ask:           newContainer(Ask),
		lastBroadcast: make(map[depthKey]int64),
		now:           time.Now,
	}
}

func (b *Book) containerFor(side Side) *container {
	if side.IsBid() {
		return b.bid
	}
	return b.ask
}

// resting reports whether key already identifies an order resting on either
// side of the book. (trader, order_id) is unique across both sides (§3), not
// just within one container.
func (b *Book) resting(key orderKey) bool {
	if _, ok := b.bid.byKey[key]; ok {
		return true
	}
	_, ok := b.ask.byKey[key]
	return ok
}

// matchOutcome accumulates everything one matching pass produced, so the
// caller (Matcher) can emit events in the fixed order §5 requires: the
// aggressor first, then counterparties in consumption order, then depth.
type matchOutcome struct {
	aggressorReports []any // Trade / ExecutionReport for the incoming order's own trader
	counterparties   []counterpartyFill
	rested           bool
	restedQuantity   int64
}

type counterpartyFill struct {
	trader *Trader
	trade  Trade
}

// CreateLimit attempts to match order against the opposite side while it
// remains marketable and has residual quantity, then rests any remainder on
// its own side. It is all-or-nothing (§7): the duplicate-id precondition is
// checked across both sides before match runs, so a rejected order never
// leaves already-matched counterparty state behind.
func (b *Book) CreateLimit(order *Order) (*matchOutcome, error) {
	if b.resting(order.key()) {
		return nil, errors.CodedError(errors.DuplicateOrderId, "order already resting for this trader")
	}

	outcome := &matchOutcome{}
	b.match(order, outcome)

	if order.Quantity > 0 {
		if err := b.containerFor(order.Side).insert(order); err != nil {
			return nil, err
		}
		outcome.rested = true
		outcome.restedQuantity = order.Quantity
	}

	if len(outcome.aggressorReports) == 0 {
		outcome.aggressorReports = append(outcome.aggressorReports, ExecutionReport{OrderID: order.OrderID, Status: StatusNew})
	}

	return outcome, nil
}

// CreateMarket matches order against the opposite side and discards any
// residual quantity rather than resting it (§4.4). If nothing matched, an
// informational rejection is reported to the submitter.
func (b *Book) CreateMarket(order *Order) *matchOutcome {
	outcome := &matchOutcome{}
	b.match(order, outcome)

	if len(outcome.aggressorReports) == 0 {
		outcome.aggressorReports = append(outcome.aggressorReports, ExecutionReport{
			OrderID: 0,
			Status:  StatusRejected,
			Reason:  "no liquidity",
		})
	}

	return outcome
}

// match runs the price-time-priority matching loop for order against the
// opposite container, recording one Trade per consumed counterparty in
// consumption (ascending time) order, and removing any counterparty whose
// quantity hits zero.
func (b *Book) match(order *Order, outcome *matchOutcome) {
	opposite := b.containerFor(order.Side.Opposite())

	for order.Quantity > 0 {
		resting := opposite.top()
		if resting == nil {
			break
		}
		if !marketable(order.Side, order.Price, resting.Price) {
			break
		}

		filled := min64(order.Quantity, resting.Quantity)
		tradePrice := resting.Price // price-of-resting convention (§4.4)

		order.Quantity -= filled
		resting.Quantity -= filled

		outcome.aggressorReports = append(outcome.aggressorReports, Trade{
			OrderID:  order.OrderID,
			Price:    tradePrice,
			Quantity: filled,
		})
		outcome.counterparties = append(outcome.counterparties, counterpartyFill{
			trader: resting.Trader,
			trade:  Trade{OrderID: resting.OrderID, Price: tradePrice, Quantity: filled},
		})

		if resting.Filled() {
			_, _ = opposite.removeByKey(resting.key())
		}
	}
}

// Cancel removes a trader's resting order. Fails with NotFound if absent.
func (b *Book) Cancel(traderID string, orderID int64, side Side) (*Order, error) {
	return b.containerFor(side).removeByKey(orderKey{traderID: traderID, orderID: orderID})
}

// Amend changes a resting order's quantity. A decrease keeps time priority
// (in-place mutation); an increase loses it (remove + re-insert, which may
// immediately match) per §4.4 and the frozen open question in §9.
func (b *Book) Amend(traderID string, orderID int64, side Side, newQuantity int64) (*matchOutcome, error) {
	if newQuantity <= 0 {
		return nil, errors.CodedError(errors.QuantityError, "amended quantity must be a positive integer")
	}

	c := b.containerFor(side)
	key := orderKey{traderID: traderID, orderID: orderID}
	e, ok := c.byKey[key]
	if !ok {
		return nil, errors.CodedError(errors.NotFound, "no resting order for this (trader, orderId)")
	}

	if newQuantity <= e.order.Quantity {
		e.order.Quantity = newQuantity
		outcome := &matchOutcome{aggressorReports: []any{ExecutionReport{OrderID: orderID, Status: StatusNew}}}
		return outcome, nil
	}

	old, err := c.removeByKey(key)
	if err != nil {
		return nil, err
	}
	order, err := NewLimitOrder(old.Trader, old.Side, old.OrderID, old.Price, newQuantity, b.now())
	if err != nil {
		return nil, err
	}
	return b.CreateLimit(order)
}

// UnregisterTrader removes every order belonging to trader from both sides.
// Returns the set of orders removed, for depth diffing by the caller.
func (b *Book) UnregisterTrader(traderID string) []*Order {
	var removed []*Order
	for _, c := range []*container{b.bid, b.ask} {
		for key, e := range c.byKey {
			if key.traderID == traderID {
				removed = append(removed, e.order)
			}
		}
		for _, o := range removed {
			_, _ = c.removeByKey(orderKey{traderID: traderID, orderID: o.OrderID})
		}
	}
	return removed
}

// DepthDeltas computes the set of price levels on both sides whose aggregate
// quantity differs from the last-broadcast snapshot, updates the snapshot,
// and returns one DepthUpdate per changed level (quantity 0 meaning gone).
func (b *Book) DepthDeltas() []DepthUpdate {
	current := make(map[depthKey]int64)
	for _, lvl := range b.bid.levels() {
		current[depthKey{side: Bid, price: lvl.Price}] = lvl.Quantity
	}
	for _, lvl := range b.ask.levels() {
		current[depthKey{side: Ask, price: lvl.Price}] = lvl.Quantity
	}

	var deltas []DepthUpdate
	for key, qty := range current {
		if b.lastBroadcast[key] != qty {
			deltas = append(deltas, DepthUpdate{Price: key.price, Side: key.side, Quantity: qty})
		}
	}
	for key, qty := range b.lastBroadcast {
		if _, stillThere := current[key]; !stillThere && qty != 0 {
			deltas = append(deltas, DepthUpdate{Price: key.price, Side: key.side, Quantity: 0})
		}
	}

	b.lastBroadcast = current
	return deltas
}

// Snapshot returns the full current depth on both sides, best to worst, for
// a getOrderBook response.
func (b *Book) Snapshot() []DepthUpdate {
	out := b.bid.levels()
	return append(out, b.ask.levels()...)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
