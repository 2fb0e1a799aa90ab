package engine

import (
	"math"
	"time"

	"github.com/darcyg/PyXchange/pkg/errors"
)

// marketSentinelBid and marketSentinelAsk are the ±∞ prices assigned to
// market orders so they compare as marketable against any resting price,
// mirroring the original implementation's use of numeric_limits<int>::max/min
// rather than a separate is_market branch in the comparison path.
const (
	marketSentinelBid = math.MaxInt64
	marketSentinelAsk = math.MinInt64
)

// Order is a single resting or aggressing order. Every field except Quantity
// is immutable after construction; Quantity is decremented only by the book
// during matching or amendment.
type Order struct {
	IsMarket bool
	Side     Side
	OrderID  int64
	Price    int64
	Quantity int64
	Time     time.Time
	seq      int64 // monotonic insertion sequence, breaks Time ties stably
	Trader   *Trader
}

// key returns the (trader, orderId) identity used by the per-side container
// for O(1) lookup and removal.
func (o *Order) key() orderKey {
	return orderKey{traderID: o.Trader.ID, orderID: o.OrderID}
}

// NewLimitOrder validates a decoded createOrder message and constructs the
// resulting Order. Construction fails before any book state changes.
func NewLimitOrder(trader *Trader, side Side, orderID, price, quantity int64, now time.Time) (*Order, error) {
	if orderID <= 0 {
		return nil, errors.CodedError(errors.OrderIdError, "orderId must be a positive integer")
	}
	if price <= 0 {
		return nil, errors.CodedError(errors.PriceError, "price must be a positive integer")
	}
	if quantity <= 0 {
		return nil, errors.CodedError(errors.QuantityError, "quantity must be a positive integer")
	}

	return &Order{
		Side:     side,
		OrderID:  orderID,
		Price:    price,
		Quantity: quantity,
		Time:     now,
		Trader:   trader,
	}, nil
}

// NewMarketOrder validates a decoded createMarketOrder message and
// constructs the resulting Order. The price is set to the side's ±∞
// sentinel and is never exposed on the wire.
func NewMarketOrder(trader *Trader, side Side, quantity int64, now time.Time) (*Order, error) {
	if quantity <= 0 {
		return nil, errors.CodedError(errors.QuantityError, "quantity must be a positive integer")
	}

	price := int64(marketSentinelAsk)
	if side.IsBid() {
		price = int64(marketSentinelBid)
	}

	return &Order{
		IsMarket: true,
		Side:     side,
		Price:    price,
		Quantity: quantity,
		Time:     now,
		Trader:   trader,
	}, nil
}

// Filled reports whether the order has no quantity left to rest or match.
func (o *Order) Filled() bool {
	return o.Quantity <= 0
}
