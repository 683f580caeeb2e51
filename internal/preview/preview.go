package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/wmconf/internal/app"
	"github.com/dshills/wmconf/internal/host"
	"github.com/dshills/wmconf/internal/host/memhost"
	"github.com/dshills/wmconf/internal/input/layer"
	"github.com/dshills/wmconf/internal/logging"
)

// Option configures a Preview.
type Option func(*Preview)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Preview) {
		p.log = l
	}
}

// WithCommands sets the source of the spawned-commands pane, typically the
// launcher's Commands method.
func WithCommands(fn func() []host.Command) Option {
	return func(p *Preview) {
		p.commands = fn
	}
}

// Preview drives an in-memory host from a terminal screen.
type Preview struct {
	screen   tcell.Screen
	host     *memhost.Host
	session  *app.Session
	commands func() []host.Command
	log      *logging.Logger
	notice   string
}

// New creates a preview of h drawn on screen. The screen is initialized by
// Run.
func New(screen tcell.Screen, h *memhost.Host, opts ...Option) *Preview {
	p := &Preview{
		screen: screen,
		host:   h,
		log:    logging.Null,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithComponent("preview")
	return p
}

// interrupt payloads
type (
	call struct{ fn func() }
	stop struct{}
)

// Post schedules fn on the event loop. It is safe to call from any
// goroutine and is meant as the executor handed to app.Configure.
func (p *Preview) Post(fn func()) {
	if err := p.screen.PostEvent(tcell.NewEventInterrupt(call{fn})); err != nil {
		p.log.Warn("dropped callback: %v", err)
	}
}

// Run shows the preview of s until the configuration quits, Ctrl+C is
// pressed or ctx is done. It announces graphics initialization once the
// screen is up.
func (p *Preview) Run(ctx context.Context, s *app.Session) error {
	if err := p.screen.Init(); err != nil {
		return fmt.Errorf("preview: init screen: %w", err)
	}
	defer p.screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.session = s
	p.host.InitializeGraphics()
	p.startTimers(ctx)
	go func() {
		<-ctx.Done()
		_ = p.screen.PostEvent(tcell.NewEventInterrupt(stop{}))
	}()

	p.draw()
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if p.handle(ev) {
			return nil
		}
		p.draw()
	}
}

// handle processes one event and reports whether the preview should end.
func (p *Preview) handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyCtrlC {
			return true
		}
		c, ok := Translate(e)
		if !ok {
			p.notice = "no symbol for " + e.Name()
			break
		}
		seat, err := p.seat()
		if err != nil {
			p.notice = err.Error()
			break
		}
		if seat.Press(c) {
			p.notice = ""
		} else {
			p.notice = c.String() + " is not bound"
		}
	case *tcell.EventInterrupt:
		switch d := e.Data().(type) {
		case call:
			d.fn()
		case stop:
			return true
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return p.host.QuitRequested()
}

func (p *Preview) seat() (*memhost.Seat, error) {
	if p.session == nil {
		return nil, errors.New("no configuration loaded")
	}
	s, ok := p.session.Seat.(*memhost.Seat)
	if !ok {
		return nil, fmt.Errorf("seat %s is not in memory", p.session.Seat.Name())
	}
	return s, nil
}

func (p *Preview) startTimers(ctx context.Context) {
	for _, t := range p.host.Timers() {
		initial, period, armed := t.Schedule()
		if !armed {
			continue
		}
		go p.drive(ctx, t, initial, period)
	}
}

// drive posts t's ticks to the event loop.
func (p *Preview) drive(ctx context.Context, t *memhost.Timer, initial, period time.Duration) {
	first := time.NewTimer(initial)
	defer first.Stop()
	select {
	case <-ctx.Done():
		return
	case <-first.C:
		p.Post(t.Tick)
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Post(t.Tick)
		}
	}
}

var (
	styleBar    = tcell.StyleDefault.Reverse(true)
	styleLabel  = tcell.StyleDefault.Bold(true)
	styleDim    = tcell.StyleDefault.Dim(true)
	styleNotice = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

func (p *Preview) draw() {
	p.screen.Clear()
	w, h := p.screen.Size()

	p.fill(0, styleBar, w)
	p.text(1, 0, styleBar, p.host.Status())

	y := 2
	if p.session != nil {
		d := p.session.Dispatcher
		tree := d.Tree()
		active := d.Active()
		p.text(0, y, styleLabel, "layer")
		p.text(10, y, tcell.StyleDefault, layerPath(tree, active))
		y++
		for _, c := range d.Installed() {
			if y >= h-1 {
				break
			}
			name := "?"
			if a, ok := tree.Action(active, c); ok {
				name = a.Name
				if a.Kind == layer.KindOpen {
					name += " >"
				}
			}
			p.text(2, y, styleLabel, c.String())
			p.text(20, y, tcell.StyleDefault, name)
			y++
		}
		y++
	}

	if conns := p.host.Connectors(); len(conns) > 0 && y < h-1 {
		p.text(0, y, styleLabel, "outputs")
		x := 10
		for _, c := range conns {
			ox, oy := c.Position()
			s := fmt.Sprintf("%s %dpx @%d,%d", c.Name(), c.Width(), ox, oy)
			if !c.Connected() {
				s = c.Name() + " off"
			}
			p.text(x, y, tcell.StyleDefault, s)
			x += len(s) + 3
		}
		y += 2
	}

	var lines []string
	if p.commands != nil {
		for _, cmd := range p.commands() {
			lines = append(lines, "spawn "+cmd.String())
		}
	}
	for _, e := range p.host.Events() {
		lines = append(lines, e.String())
	}
	if y < h-1 {
		p.text(0, y, styleLabel, "log")
		y++
	}
	if room := h - 1 - y; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	for _, l := range lines {
		if y >= h-1 {
			break
		}
		p.text(2, y, styleDim, l)
		y++
	}

	p.text(0, h-1, styleNotice, p.notice)
	p.screen.Show()
}

// layerPath renders the names from the root down to id.
func layerPath(tree *layer.Tree, id layer.LayerID) string {
	var names []string
	for _, lid := range tree.Path(id) {
		if l, ok := tree.Layer(lid); ok {
			names = append(names, l.Name)
		}
	}
	return strings.Join(names, " > ")
}

func (p *Preview) fill(y int, style tcell.Style, width int) {
	for x := 0; x < width; x++ {
		p.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (p *Preview) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
