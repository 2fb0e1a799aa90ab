package engine

import (
	"testing"
	"time"

	"github.com/darcyg/PyXchange/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrader(id string) *Trader {
	return NewTrader(id, SinkFunc(func(event any) error { return nil }))
}

func TestNewLimitOrderValidation(t *testing.T) {
	trader := newTestTrader("t1")
	now := time.Now()

	_, err := NewLimitOrder(trader, Bid, 0, 100, 10, now)
	require.Error(t, err)
	assert.Equal(t, string(errors.OrderIdError), err.(*errors.ErrorDetails).Code)

	_, err = NewLimitOrder(trader, Bid, 1, 0, 10, now)
	require.Error(t, err)
	assert.Equal(t, string(errors.PriceError), err.(*errors.ErrorDetails).Code)

	_, err = NewLimitOrder(trader, Bid, 1, 100, 0, now)
	require.Error(t, err)
	assert.Equal(t, string(errors.QuantityError), err.(*errors.ErrorDetails).Code)

	order, err := NewLimitOrder(trader, Bid, 1, 100, 10, now)
	require.NoError(t, err)
	assert.False(t, order.IsMarket)
	assert.Equal(t, int64(100), order.Price)
}

func TestNewMarketOrderSentinelPrice(t *testing.T) {
	trader := newTestTrader("t1")
	now := time.Now()

	bidOrder, err := NewMarketOrder(trader, Bid, 10, now)
	require.NoError(t, err)
	assert.True(t, bidOrder.IsMarket)
	assert.Equal(t, int64(marketSentinelBid), bidOrder.Price)

	askOrder, err := NewMarketOrder(trader, Ask, 10, now)
	require.NoError(t, err)
	assert.Equal(t, int64(marketSentinelAsk), askOrder.Price)

	_, err = NewMarketOrder(trader, Bid, 0, now)
	require.Error(t, err)
	assert.Equal(t, string(errors.QuantityError), err.(*errors.ErrorDetails).Code)
}

func TestOrderFilled(t *testing.T) {
	trader := newTestTrader("t1")
	order, err := NewLimitOrder(trader, Bid, 1, 100, 10, time.Now())
	require.NoError(t, err)
	assert.False(t, order.Filled())
	order.Quantity = 0
	assert.True(t, order.Filled())
}
