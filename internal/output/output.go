// Package output arranges the two monitors side by side.
package output

import (
	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/logging"
)

// Arranger places Right immediately to the right of Left.
type Arranger struct {
	Left  host.Connector
	Right host.Connector

	log *logging.Logger
}

// Option configures an Arranger.
type Option func(*Arranger)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Arranger) {
		a.log = l
	}
}

// New creates an arranger for the named connectors.
func New(h host.Host, left, right string, opts ...Option) *Arranger {
	a := &Arranger{
		Left:  h.Connector(left),
		Right: h.Connector(right),
		log:   logging.Null,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithComponent("output")
	return a
}

// Arrange positions both outputs when both are connected: Left at the
// origin and Right at Left's width. It reports whether anything moved.
func (a *Arranger) Arrange() bool {
	if !a.Left.Connected() || !a.Right.Connected() {
		a.log.Debug("skip arrange: %s connected=%v, %s connected=%v",
			a.Left.Name(), a.Left.Connected(), a.Right.Name(), a.Right.Connected())
		return false
	}
	width := a.Left.Width()
	a.Left.SetPosition(0, 0)
	a.Right.SetPosition(width, 0)
	a.log.Info("arranged %s at 0,0 and %s at %d,0", a.Left.Name(), a.Right.Name(), width)
	return true
}

// Setup re-arranges whenever a connector appears or connects, then arranges
// once for the outputs already present.
func (a *Arranger) Setup(h host.Host) {
	h.OnNewConnector(func(host.Connector) { a.Arrange() })
	h.OnConnectorConnected(func(host.Connector) { a.Arrange() })
	a.Arrange()
}
