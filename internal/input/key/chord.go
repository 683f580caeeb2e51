package key

// Chord is a modifier set plus one key symbol, treated as a single atomic
// trigger. Chords are comparable and may be used as map keys.
type Chord struct {
	Mods Modifier
	Sym  Sym
}

// NewChord creates a chord from a symbol and modifiers.
func NewChord(sym Sym, mods Modifier) Chord {
	return Chord{Mods: mods, Sym: sym}
}

// With returns a copy of c with mod added, e.g. MustParse("s").With(ModShift).
func (c Chord) With(mod Modifier) Chord {
	c.Mods = c.Mods.With(mod)
	return c
}

// Valid returns true if the chord has a bindable symbol.
func (c Chord) Valid() bool {
	return c.Sym.Valid()
}

// String returns the canonical specification, e.g. "Shift+s" or "F1".
// The result parses back to the same chord.
func (c Chord) String() string {
	if c.Mods.IsEmpty() {
		return c.Sym.String()
	}
	return c.Mods.String() + "+" + c.Sym.String()
}
