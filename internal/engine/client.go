package engine

// Sink is the abstract write capability the core uses to emit outbound
// records. It is host-supplied: the core never introspects it beyond
// invoking it and discarding any returned error (§6, §7).
type Sink interface {
	// Send delivers one outbound record (Trade, ExecutionReport, DepthUpdate,
	// or ErrorEvent). A non-nil return is a transport-level failure and is
	// swallowed by the caller.
	Send(event any) error
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(event any) error

// Send implements Sink.
func (f SinkFunc) Send(event any) error {
	return f(event)
}

// Client is an observer of order-book depth. A Trader is always also a
// Client; an observer-only market-data client registers just this.
type Client struct {
	ID   string
	Sink Sink
}

// NewClient builds an observer-only client.
func NewClient(id string, sink Sink) *Client {
	return &Client{ID: id, Sink: sink}
}

// notify delivers an event to the client, logging and swallowing any sink
// failure so it never unwinds into the book's already-committed mutation.
func (c *Client) notify(log errorLogger, event any) {
	if err := c.Sink.Send(event); err != nil && log != nil {
		log.sinkError(c.ID, err)
	}
}

// errorLogger is the minimal logging capability Client and Trader need to
// report a swallowed sink failure; the Matcher implements it on top of its
// *logger.Logger.
type errorLogger interface {
	sinkError(clientID string, err error)
}
