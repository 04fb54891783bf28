package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/hay-kot/slides/internal/slideshow"
)

var actionHelp = map[slideshow.Action]string{
	slideshow.ActionNext:       "next image",
	slideshow.ActionPrev:       "previous image",
	slideshow.ActionFirst:      "first image",
	slideshow.ActionLast:       "last image",
	slideshow.ActionClose:      "close",
	slideshow.ActionToggleHelp: "toggle help",
}

var keyGlyphs = map[string]string{
	"right": "→",
	"left":  "←",
	"up":    "↑",
	"down":  "↓",
	" ":     "space",
}

// helpKeys adapts a slideshow keymap to help.KeyMap.
type helpKeys struct {
	bindings []key.Binding
}

func newHelpKeys(km slideshow.Keymap) helpKeys {
	var bindings []key.Binding
	for _, a := range slideshow.Actions() {
		keys := km.Keys(a)
		if len(keys) == 0 {
			continue
		}
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(displayKeys(keys), actionHelp[a]),
		))
	}
	return helpKeys{bindings: bindings}
}

func (k helpKeys) ShortHelp() []key.Binding {
	return k.bindings
}

func (k helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings}
}

func displayKeys(keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if g, ok := keyGlyphs[k]; ok {
			k = g
		}
		out[i] = k
	}
	return strings.Join(out, "/")
}
