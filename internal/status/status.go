// Package status keeps the compositor status line set to the wall clock.
package status

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/logging"
)

const (
	// DefaultFormat renders "2006-01-02 15:04".
	DefaultFormat = "%Y-%m-%d %H:%M"

	// DefaultPeriod is the refresh interval.
	DefaultPeriod = 5 * time.Second

	// TimerName is the host timer driving refreshes.
	TimerName = "status_timer"
)

var (
	// ErrBadFormat indicates an unparseable strftime pattern.
	ErrBadFormat = errors.New("status: bad format")

	// ErrBadPeriod indicates a non-positive refresh period.
	ErrBadPeriod = errors.New("status: period must be positive")
)

// Formatter renders the status text for an instant.
type Formatter interface {
	Format(t time.Time) (string, error)
}

// Strftime formats with a strftime pattern.
type Strftime struct {
	f *strftime.Strftime
}

// NewStrftime compiles pattern.
func NewStrftime(pattern string) (*Strftime, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrBadFormat, pattern, err)
	}
	return &Strftime{f: f}, nil
}

// Format implements Formatter.
func (s *Strftime) Format(t time.Time) (string, error) {
	return s.f.FormatString(t), nil
}

// Clock writes the formatted time to the host status line.
type Clock struct {
	format Formatter
	period time.Duration
	now    func() time.Time
	log    *logging.Logger
	last   string
}

// Option configures a Clock.
type Option func(*Clock)

// WithFormatter replaces the strftime formatter.
func WithFormatter(f Formatter) Option {
	return func(c *Clock) {
		c.format = f
	}
}

// WithPeriod sets the refresh period.
func WithPeriod(d time.Duration) Option {
	return func(c *Clock) {
		c.period = d
	}
}

// WithNow sets the clock source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Clock) {
		c.log = l
	}
}

// New creates a clock formatting with pattern unless WithFormatter is given.
func New(pattern string, opts ...Option) (*Clock, error) {
	c := &Clock{
		period: DefaultPeriod,
		now:    time.Now,
		log:    logging.Null,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.period <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadPeriod, c.period)
	}
	if c.format == nil {
		if pattern == "" {
			pattern = DefaultFormat
		}
		f, err := NewStrftime(pattern)
		if err != nil {
			return nil, err
		}
		c.format = f
	}
	c.log = c.log.WithComponent("status")
	return c, nil
}

// Period returns the refresh period.
func (c *Clock) Period() time.Duration {
	return c.period
}

// Text renders the status for the current instant. On a formatter error the
// previous text is kept.
func (c *Clock) Text() string {
	text, err := c.format.Format(c.now())
	if err != nil {
		c.log.Warn("format: %v", err)
		return c.last
	}
	c.last = text
	return text
}

// Update writes the current text to the host.
func (c *Clock) Update(h host.Host) {
	h.SetStatus(c.Text())
}

// Setup writes the status once and schedules a refresh every period,
// aligned so ticks land on multiples of the period of wall-clock time.
func (c *Clock) Setup(h host.Host) {
	c.Update(h)
	t := h.Timer(TimerName)
	t.Repeated(Until(c.now(), c.period), c.period)
	t.OnTick(func() { c.Update(h) })
}

// Until returns how long after now the wall clock is next a multiple of
// period. It returns zero when now is already aligned.
func Until(now time.Time, period time.Duration) time.Duration {
	if period <= 0 {
		return 0
	}
	rem := time.Duration(now.UnixNano() % int64(period))
	if rem < 0 {
		rem += period
	}
	if rem == 0 {
		return 0
	}
	return period - rem
}
