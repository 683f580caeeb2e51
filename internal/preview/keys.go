package preview

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/wmconf/internal/input/key"
)

// Translate converts a terminal key event to a chord. It reports false for
// keys that have no symbol.
func Translate(ev *tcell.EventKey) (key.Chord, bool) {
	mods := convertMod(ev.Modifiers())

	var sym key.Sym
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		sym = key.SymFromRune(r)
		if unicode.IsUpper(r) {
			mods |= key.ModShift
		}
	case tcell.KeyEscape:
		sym = key.SymEscape
	case tcell.KeyEnter:
		sym = key.SymReturn
	case tcell.KeyTab:
		sym = key.SymTab
	case tcell.KeyBacktab:
		sym = key.SymTab
		mods |= key.ModShift
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		sym = key.SymBackSpace
	case tcell.KeyDelete:
		sym = key.SymDelete
	case tcell.KeyHome:
		sym = key.SymHome
	case tcell.KeyEnd:
		sym = key.SymEnd
	case tcell.KeyPgUp:
		sym = key.SymPageUp
	case tcell.KeyPgDn:
		sym = key.SymPageDown
	case tcell.KeyPrint:
		sym = key.SymPrint
	case tcell.KeyUp:
		sym = key.SymUp
	case tcell.KeyDown:
		sym = key.SymDown
	case tcell.KeyLeft:
		sym = key.SymLeft
	case tcell.KeyRight:
		sym = key.SymRight
	default:
		k := ev.Key()
		switch {
		case k >= tcell.KeyF1 && k <= tcell.KeyF12:
			sym = key.SymF1 + key.Sym(k-tcell.KeyF1)
		case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
			// Terminals report Ctrl+letter as a control code.
			sym = key.SymA + key.Sym(k-tcell.KeyCtrlA)
			mods |= key.ModCtrl
		}
	}

	if !sym.Valid() {
		return key.Chord{}, false
	}
	return key.NewChord(sym, mods), true
}

func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModLogo
	}
	return result
}
