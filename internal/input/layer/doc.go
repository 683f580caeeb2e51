// Package layer provides the binding-layer tree driven by the modal
// dispatcher.
//
// A Tree is a table of layers indexed by LayerID. The root layer (ID 0) is
// installed at startup; every other layer is reached through an OpenLayer
// action bound in its parent. Each binding maps a key.Chord to an Action:
//
//   - KindOpen opens a child layer
//   - KindRun runs an effect, then returns to the root layer
//   - KindCancel returns to the root layer
//
// Trees are authored once with a Builder and validated by Build. Every
// configuration problem (duplicate chords, a child layer redefining the
// reserved cancel chord, empty layers, excessive depth) is reported together
// before anything is installed on a seat.
//
// # Usage
//
//	b := layer.NewBuilder(key.MustParse("Escape"))
//	menu := b.Root().Sub(key.MustParse("F1"), "menu")
//	menu.Run(key.MustParse("w"), "close", closeWindow)
//	tree, err := b.Build()
package layer
