package engine

import (
	"container/heap"

	"github.com/darcyg/PyXchange/pkg/errors"
)

// container is the price-time priority index for one side of the book: a
// heap ordered by (price, time, insertion sequence) as the primary key, plus
// a map keyed by (trader, orderId) for O(1) lookup and removal (§4.3).
//
// Grounded on realmfikri-Limitless's priceTimeQueue/orderEntry (engine/queue.go),
// generalized with the secondary index the spec requires.
type container struct {
	side    Side
	entries queue
	byKey   map[orderKey]*entry
	seq     int64
}

// entry wraps an Order for heap bookkeeping; index is maintained by the
// heap.Interface Swap method so heap.Fix/heap.Remove stay O(log n).
type entry struct {
	order *Order
	index int
}

func newContainer(side Side) *container {
	c := &container{
		side:  side,
		byKey: make(map[orderKey]*entry),
	}
	heap.Init(&c.entries)
	return c
}

// insert adds order to both indices. Fails with DuplicateOrderId if the
// (trader, orderId) key is already present on this side.
func (c *container) insert(order *Order) error {
	key := order.key()
	if _, exists := c.byKey[key]; exists {
		return errors.CodedError(errors.DuplicateOrderId, "order already resting for this trader")
	}

	c.seq++
	order.seq = c.seq

	e := &entry{order: order}
	heap.Push(&c.entries, e)
	c.byKey[key] = e
	return nil
}

// removeByKey removes the order identified by key from both indices.
// Fails with NotFound if absent.
func (c *container) removeByKey(key orderKey) (*Order, error) {
	e, ok := c.byKey[key]
	if !ok {
		return nil, errors.CodedError(errors.NotFound, "no resting order for this (trader, orderId)")
	}
	heap.Remove(&c.entries, e.index)
	delete(c.byKey, key)
	return e.order, nil
}

// top returns the highest-priority resting order, or nil if the side is
// empty.
func (c *container) top() *Order {
	if len(c.entries) == 0 {
		return nil
	}
	return c.entries[0].order
}

// depthAt sums the quantity of every resting order at price. Returns 0 if
// no order rests there.
func (c *container) depthAt(price int64) int64 {
	var total int64
	for _, e := range c.entries {
		if e.order.Price == price {
			total += e.order.Quantity
		}
	}
	return total
}

// levels enumerates (price, totalQuantity) from best to worst, used only
// for diffing and full-depth snapshots.
func (c *container) levels() []DepthUpdate {
	totals := make(map[int64]int64)
	var prices []int64
	for _, e := range c.entries {
		if _, seen := totals[e.order.Price]; !seen {
			prices = append(prices, e.order.Price)
		}
		totals[e.order.Price] += e.order.Quantity
	}

	sortPricesByPriority(prices, c.side)

	out := make([]DepthUpdate, 0, len(prices))
	for _, p := range prices {
		out = append(out, DepthUpdate{Price: p, Side: c.side, Quantity: totals[p]})
	}
	return out
}

func sortPricesByPriority(prices []int64, side Side) {
	for i := 1; i < len(prices); i++ {
		for j := i; j > 0 && side.better(prices[j], prices[j-1]); j-- {
			prices[j], prices[j-1] = prices[j-1], prices[j]
		}
	}
}

// queue implements container/heap.Interface over *entry, ordered by
// (price, time, seq) per the side's priority direction.
type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	a, b := q[i].order, q[j].order
	if a.Price != b.Price {
		if a.Side.IsBid() {
			return a.Price > b.Price
		}
		return a.Price < b.Price
	}
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}
	return a.seq < b.seq
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	e.index = -1
	*q = old[:n-1]
	return e
}
