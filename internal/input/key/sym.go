package key

import (
	"fmt"
	"strings"
)

// Sym identifies a key symbol. The set of symbols is closed: every chord the
// configuration can bind is known when the binding tree is built.
type Sym uint16

const (
	// SymNone represents no key.
	SymNone Sym = iota

	// Special keys
	SymEscape
	SymReturn
	SymTab
	SymBackSpace
	SymDelete
	SymSpace
	SymHome
	SymEnd
	SymPageUp
	SymPageDown
	SymPrint

	// Arrow keys
	SymUp
	SymDown
	SymLeft
	SymRight

	// Function keys
	SymF1
	SymF2
	SymF3
	SymF4
	SymF5
	SymF6
	SymF7
	SymF8
	SymF9
	SymF10
	SymF11
	SymF12

	// Letters
	SymA
	SymB
	SymC
	SymD
	SymE
	SymF
	SymG
	SymH
	SymI
	SymJ
	SymK
	SymL
	SymM
	SymN
	SymO
	SymP
	SymQ
	SymR
	SymS
	SymT
	SymU
	SymV
	SymW
	SymX
	SymY
	SymZ

	// Digits
	Sym0
	Sym1
	Sym2
	Sym3
	Sym4
	Sym5
	Sym6
	Sym7
	Sym8
	Sym9

	symCount
)

var specialNames = map[Sym]string{
	SymNone:      "None",
	SymEscape:    "Escape",
	SymReturn:    "Return",
	SymTab:       "Tab",
	SymBackSpace: "BackSpace",
	SymDelete:    "Delete",
	SymSpace:     "space",
	SymHome:      "Home",
	SymEnd:       "End",
	SymPageUp:    "Prior",
	SymPageDown:  "Next",
	SymPrint:     "Print",
	SymUp:        "Up",
	SymDown:      "Down",
	SymLeft:      "Left",
	SymRight:     "Right",
}

// String returns the keysym name, e.g. "Return", "F1", "s".
func (s Sym) String() string {
	switch {
	case s >= SymF1 && s <= SymF12:
		return fmt.Sprintf("F%d", int(s-SymF1)+1)
	case s >= SymA && s <= SymZ:
		return string(rune('a' + (s - SymA)))
	case s >= Sym0 && s <= Sym9:
		return string(rune('0' + (s - Sym0)))
	}
	if name, ok := specialNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sym(%d)", s)
}

// Valid returns true if s is a bindable symbol.
func (s Sym) Valid() bool {
	return s > SymNone && s < symCount
}

// IsLetter returns true if s is one of a-z.
func (s Sym) IsLetter() bool {
	return s >= SymA && s <= SymZ
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (s Sym) IsFunctionKey() bool {
	return s >= SymF1 && s <= SymF12
}

// symNameMap maps symbol names (lowercase) to Sym values.
var symNameMap = map[string]Sym{
	"escape":    SymEscape,
	"esc":       SymEscape,
	"return":    SymReturn,
	"enter":     SymReturn,
	"cr":        SymReturn,
	"tab":       SymTab,
	"backspace": SymBackSpace,
	"bs":        SymBackSpace,
	"delete":    SymDelete,
	"del":       SymDelete,
	"space":     SymSpace,
	"home":      SymHome,
	"end":       SymEnd,
	"prior":     SymPageUp,
	"pageup":    SymPageUp,
	"pgup":      SymPageUp,
	"next":      SymPageDown,
	"pagedown":  SymPageDown,
	"pgdn":      SymPageDown,
	"print":     SymPrint,
	"up":        SymUp,
	"down":      SymDown,
	"left":      SymLeft,
	"right":     SymRight,
}

// SymFromName returns the Sym for a key name (case-insensitive for named
// keys). Single letters and digits map to their symbol. Returns SymNone if
// the name is not recognized.
func SymFromName(name string) Sym {
	name = strings.TrimSpace(name)
	if len(name) == 1 {
		return SymFromRune(rune(name[0]))
	}
	lower := strings.ToLower(name)
	if s, ok := symNameMap[lower]; ok {
		return s
	}
	if len(lower) >= 2 && lower[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(lower[1:], "%d", &n); err == nil &&
			fmt.Sprint(n) == lower[1:] && n >= 1 && n <= 12 {
			return SymF1 + Sym(n-1)
		}
	}
	return SymNone
}

// SymFromRune returns the symbol for a letter or digit. Uppercase letters
// map to the same symbol as their lowercase form.
func SymFromRune(r rune) Sym {
	switch {
	case r >= 'a' && r <= 'z':
		return SymA + Sym(r-'a')
	case r >= 'A' && r <= 'Z':
		return SymA + Sym(r-'A')
	case r >= '0' && r <= '9':
		return Sym0 + Sym(r-'0')
	case r == ' ':
		return SymSpace
	}
	return SymNone
}
