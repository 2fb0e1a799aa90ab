package engine

import (
	"sync"

	"github.com/darcyg/PyXchange/pkg/errors"
	"github.com/darcyg/PyXchange/pkg/logger"
)

// Matcher is the process-wide (per engine instance) registry: a set of
// observer clients, a map of registered traders, and exactly one Book
// (§3, §4.7). The core does not use package-level state — multiple Matchers
// may coexist.
//
// The engine is single-threaded cooperative per §5: Dispatch and the
// registration methods are not meant to be called concurrently from
// multiple goroutines against the same Matcher. The mutex exists only to
// make accidental concurrent misuse (e.g. a test helper and the engine both
// touching the same Matcher) fail safely rather than corrupt the heap.
type Matcher struct {
	mu sync.Mutex

	book *Book

	traders map[string]*Trader
	// clientOrder preserves registration order for fan-out (§5: "observers
	// in registration order").
	clientOrder []string
	clients     map[string]*Client

	log *logger.Logger
}

// NewMatcher constructs an empty Matcher around a fresh Book.
func NewMatcher(log *logger.Logger) *Matcher {
	return &Matcher{
		book:    NewBook(),
		traders: make(map[string]*Trader),
		clients: make(map[string]*Client),
		log:     log,
	}
}

// sinkError implements errorLogger: it is invoked by Trader/Client when
// their sink returns an error, which the core swallows per §4.5/§7.
func (m *Matcher) sinkError(recipientID string, err error) {
	if m.log == nil {
		return
	}
	m.log.Warn("sink write failed",
		logger.Field{Key: "recipient", Value: recipientID},
		logger.Field{Key: "error", Value: err.Error()},
	)
}

// AddTrader registers a trader and, by default, also registers it as a
// depth observer (§4.5).
func (m *Matcher) AddTrader(trader *Trader) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.traders[trader.ID] = trader
	m.addClientLocked(trader.AsClient())
}

// RemoveTrader unregisters a trader, purges every resting order it owns from
// the book, and broadcasts the resulting depth deltas (§4.4, §4.7).
func (m *Matcher) RemoveTrader(traderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.book.UnregisterTrader(traderID)
	delete(m.traders, traderID)
	m.removeClientLocked(traderID)
	m.broadcastDepthLocked()
}

// AddClient registers an observer-only depth client.
func (m *Matcher) AddClient(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addClientLocked(client)
}

// RemoveClient unregisters an observer.
func (m *Matcher) RemoveClient(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeClientLocked(clientID)
}

func (m *Matcher) addClientLocked(client *Client) {
	if _, exists := m.clients[client.ID]; !exists {
		m.clientOrder = append(m.clientOrder, client.ID)
	}
	m.clients[client.ID] = client
}

func (m *Matcher) removeClientLocked(clientID string) {
	if _, exists := m.clients[clientID]; !exists {
		return
	}
	delete(m.clients, clientID)
	for i, id := range m.clientOrder {
		if id == clientID {
			m.clientOrder = append(m.clientOrder[:i], m.clientOrder[i+1:]...)
			break
		}
	}
}

// Dispatch routes a decoded request from traderID to the appropriate Book
// operation and emits events to the aggressor, then counterparties, then
// observers, in that fixed order (§5). Errors are reported to the
// originating trader's sink, never returned to the host as a fatal
// condition (§7).
func (m *Matcher) Dispatch(traderID string, req Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trader, ok := m.traders[traderID]
	if !ok {
		// Not in §6's taxonomy directly, but there is no sink to report to:
		// a request from an unregistered trader is silently dropped, same
		// as the host never having delivered it.
		if m.log != nil {
			m.log.Warn("dispatch from unregistered trader", logger.Field{Key: "trader", Value: traderID})
		}
		return
	}

	switch req.Type {
	case CreateOrder:
		m.handleCreateOrder(trader, req)
	case CreateMarketOrder:
		m.handleCreateMarketOrder(trader, req)
	case CancelOrder:
		m.handleCancelOrder(trader, req)
	case GetOrderBook:
		m.handleGetOrderBook(trader)
	case "":
		trader.notify(m, ErrorEvent{Code: string(errors.MalformedMessage), Text: "missing message type"})
	default:
		trader.notify(m, ErrorEvent{Code: string(errors.UnknownMessage), Text: "unrecognized message: " + string(req.Type)})
	}
}

func (m *Matcher) handleCreateOrder(trader *Trader, req Request) {
	side, ok := ParseSide(req.Side)
	if !ok {
		trader.notify(m, ErrorEvent{Code: string(errors.WrongSide), Text: "side must be BUY or SELL"})
		return
	}

	order, err := NewLimitOrder(trader, side, req.OrderID, req.Price, req.Quantity, m.book.now())
	if err != nil {
		m.notifyConstructionError(trader, err)
		return
	}

	outcome, err := m.book.CreateLimit(order)
	if err != nil {
		m.notifyConstructionError(trader, err)
		return
	}

	m.emitOutcome(trader, outcome)
}

func (m *Matcher) handleCreateMarketOrder(trader *Trader, req Request) {
	side, ok := ParseSide(req.Side)
	if !ok {
		trader.notify(m, ErrorEvent{Code: string(errors.WrongSide), Text: "side must be BUY or SELL"})
		return
	}

	order, err := NewMarketOrder(trader, side, req.Quantity, m.book.now())
	if err != nil {
		m.notifyConstructionError(trader, err)
		return
	}

	outcome := m.book.CreateMarket(order)
	m.emitOutcome(trader, outcome)
}

func (m *Matcher) handleCancelOrder(trader *Trader, req Request) {
	if req.OrderID <= 0 {
		trader.notify(m, ErrorEvent{Code: string(errors.OrderIdError), Text: "orderId must be a positive integer"})
		return
	}

	// Side is inferred from the index: try both, since cancelOrder carries
	// no side field (§6).
	for _, side := range [2]Side{Bid, Ask} {
		if _, err := m.book.Cancel(trader.ID, req.OrderID, side); err == nil {
			trader.notify(m, ExecutionReport{OrderID: req.OrderID, Status: StatusCanceled})
			m.broadcastDepthLocked()
			return
		}
	}

	trader.notify(m, ErrorEvent{Code: string(errors.NotFound), Text: "no resting order with that id"})
}

func (m *Matcher) handleGetOrderBook(trader *Trader) {
	for _, lvl := range m.book.Snapshot() {
		trader.notify(m, lvl)
	}
}

// notifyConstructionError reports a typed validation/state error via the
// originating trader's sink, without ever touching book state (§7).
func (m *Matcher) notifyConstructionError(trader *Trader, err error) {
	if details, ok := err.(*errors.ErrorDetails); ok {
		trader.notify(m, ErrorEvent{Code: details.Code, Text: details.Message})
		return
	}
	trader.notify(m, ErrorEvent{Code: string(errors.GeneralInternalServerError), Text: err.Error()})
}

// emitOutcome delivers the aggressor's own reports, then each counterparty's
// trade, in consumption order, then broadcasts depth — the fixed order §5
// requires.
func (m *Matcher) emitOutcome(aggressor *Trader, outcome *matchOutcome) {
	for _, event := range outcome.aggressorReports {
		aggressor.notify(m, event)
	}
	for _, cp := range outcome.counterparties {
		cp.trader.notify(m, cp.trade)
	}
	m.broadcastDepthLocked()
}

// broadcastDepthLocked emits edge-triggered depth deltas to every registered
// observer in registration order, pruning nothing here (weak-reference
// pruning in the original design is modelled by the host simply calling
// RemoveClient when it drops a sink; Go has no GC hook to prune on our
// behalf, so we rely on explicit unregistration — see DESIGN.md).
func (m *Matcher) broadcastDepthLocked() {
	deltas := m.book.DepthDeltas()
	if len(deltas) == 0 {
		return
	}
	for _, id := range m.clientOrder {
		client := m.clients[id]
		for _, d := range deltas {
			client.notify(m, d)
		}
	}
}
