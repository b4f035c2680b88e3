package keys

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// Quit ends the whole run from an interactive form.
var Quit = key.NewBinding(
	key.WithKeys("ctrl+c", "esc", "q"),
	key.WithHelp("q/esc", "quit"),
)

// SelectKeyMap returns the bindings for the category select list:
// huh's defaults with Quit widened to q and esc.
func SelectKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = Quit
	return km
}
