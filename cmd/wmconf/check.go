package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/dshills/wmconf/internal/app"
	"github.com/dshills/wmconf/internal/host/memhost"
	"github.com/dshills/wmconf/internal/input/key"
	"github.com/dshills/wmconf/internal/input/layer"
	"github.com/dshills/wmconf/internal/launch"
)

// errReported marks an error whose details were already printed.
var errReported = errors.New("configuration has errors")

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print the binding tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(g, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runCheck(g *globalFlags, out, errOut io.Writer) error {
	th := defaultTheme()

	source := g.configPath
	if _, err := os.Stat(source); errors.Is(err, fs.ErrNotExist) {
		source = "built-in defaults (" + source + " not found)"
	}
	fmt.Fprintln(out, th.Header.Render("wmconf")+" "+th.Muted.Render(source))

	cfg, err := g.load()
	if err != nil {
		printErrors(out, th, "invalid configuration", err)
		return errReported
	}
	log, err := logger(cfg, errOut)
	if err != nil {
		return err
	}

	h := memhost.New(memhost.WithLauncher(launch.NewDryRun(log)))
	if cfg.Seat.Name != memhost.DefaultSeat {
		h.AddSeat(cfg.Seat.Name)
	}
	s, err := app.Configure(h, cfg, app.WithLogger(log))
	if err != nil {
		title := "configuration failed"
		var oe *app.OperationError
		if errors.As(err, &oe) {
			title = oe.Op + " failed"
			err = oe.Err
		}
		printErrors(out, th, title, err)
		return errReported
	}
	defer s.Close()

	fmt.Fprintln(out, renderTree(th, s.Tree))

	layers, bindings := 0, 0
	s.Tree.Walk(func(l *layer.Layer, _ key.Chord) bool {
		layers++
		bindings += l.Len()
		return true
	})
	fmt.Fprintln(out, th.Success.Render("ok")+" "+
		th.Muted.Render(fmt.Sprintf("%d layers, %d bindings, leader %s", layers, bindings, cfg.Keys.Leader)))
	return nil
}

func renderTree(th theme, t *layer.Tree) string {
	return layerTree(th, t, t.Root(), th.Layer.Render("root")).String()
}

func layerTree(th theme, t *layer.Tree, l *layer.Layer, label string) *tree.Tree {
	tr := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(th.Enum)

	for _, b := range l.Bindings() {
		chord := th.Chord.Render(b.Chord.String())
		if b.Action.Kind == layer.KindOpen {
			child, ok := t.Layer(b.Action.Child)
			if !ok {
				continue
			}
			tr.Child(layerTree(th, t, child, chord+" "+th.Layer.Render(child.Name)))
			continue
		}
		tr.Child(chord + " " + b.Action.Name)
	}
	if _, bound := l.Lookup(t.Cancel()); !l.IsRoot() && !bound {
		tr.Child(th.Chord.Render(t.Cancel().String()) + " " + th.Muted.Render("cancel"))
	}
	return tr
}

func printErrors(w io.Writer, th theme, title string, err error) {
	fmt.Fprintln(w, th.Danger.Render(title))
	for _, e := range flatten(err) {
		fmt.Fprintln(w, th.ErrorItem.Render("- "+e.Error()))
	}
}

// flatten expands errors.Join trees into their leaves.
func flatten(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
