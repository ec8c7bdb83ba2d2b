package mdtty

// Sink receives events from a Parser in document order.
type Sink interface {
	RenderEvent(Event) error
	// Finish is called once after the last event.
	Finish() error
}

// SinkFunc adapts a function to a Sink with a no-op Finish.
type SinkFunc func(Event) error

func (f SinkFunc) RenderEvent(ev Event) error { return f(ev) }
func (f SinkFunc) Finish() error              { return nil }

var _ Sink = (*Renderer)(nil)
