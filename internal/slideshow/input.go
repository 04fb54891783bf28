package slideshow

import (
	"fmt"
	"slices"
)

// Action is a navigation or overlay command the controller understands.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrev
	ActionFirst
	ActionLast
	ActionClose
	ActionToggleHelp
)

var actionNames = map[Action]string{
	ActionNext:       "next",
	ActionPrev:       "prev",
	ActionFirst:      "first",
	ActionLast:       "last",
	ActionClose:      "close",
	ActionToggleHelp: "help",
}

// Actions lists every bindable action in help display order.
func Actions() []Action {
	return []Action{ActionNext, ActionPrev, ActionFirst, ActionLast, ActionToggleHelp, ActionClose}
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// ParseAction resolves an action by its configuration name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// Keymap maps key names to actions. Key names follow bubbletea's KeyMsg.String
// form: "right", "left", " ", "esc", "home", "end", "h".
type Keymap map[string]Action

// DefaultKeymap returns the built-in key bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		"right": ActionNext,
		" ":     ActionNext,
		"left":  ActionPrev,
		"esc":   ActionClose,
		"h":     ActionToggleHelp,
		"H":     ActionToggleHelp,
		"home":  ActionFirst,
		"end":   ActionLast,
	}
}

// Keys returns the keys bound to a, sorted.
func (k Keymap) Keys(a Action) []string {
	var keys []string
	for key, bound := range k {
		if bound == a {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// Target identifies a clickable control.
type Target int

const (
	TargetImage Target = iota
	TargetNext
	TargetPrev
	TargetClose
)

// InputHandler receives input events bound through a Viewport.
type InputHandler interface {
	// HandleKey returns true when the key was consumed and its default
	// action should be suppressed.
	HandleKey(key string) (bool, []Task)
	// HandleClick returns true when the click must not propagate to the
	// enclosing container.
	HandleClick(target Target) (bool, []Task)
}

// Viewport is the surface the controller renders into and listens through.
type Viewport interface {
	// Bind registers the input handler. It fails when the viewport cannot
	// provide the controls the controller drives.
	Bind(h InputHandler) error
	ShowImage(img Image)
	SetCounter(text string)
	SetLoading(loading bool)
	SetHelpVisible(visible bool)
	// Navigate leaves the presentation for target. All controller state is
	// discarded by the caller afterwards.
	Navigate(target string)
}
