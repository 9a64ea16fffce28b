package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	scopeSidebar = "sidebar"
	scopePanes   = "panes"
	scopeFilter  = "filter"
)

const (
	actionQuit         = "quit"
	actionFocus        = "focus-next"
	actionUp           = "up"
	actionDown         = "down"
	actionGrab         = "grab"
	actionDrop         = "drop"
	actionCancel       = "cancel"
	actionAddPane      = "add-pane"
	actionClosePane    = "close-pane"
	actionGrow         = "grow"
	actionShrink       = "shrink"
	actionDetach       = "detach"
	actionExport       = "export"
	actionUndoExport   = "undo-export"
	actionClearExports = "clear-exports"
	actionFilter       = "filter"
	actionCycleColor   = "cycle-color"
	actionAddSignal    = "add-signal"
	actionAccept       = "accept"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

// Action returns the first action bound to msg in scope, or "".
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) string {
	for _, b := range r.bindings {
		if r.IsAction(msg, b.Action, scope) {
			return b.Action
		}
	}
	return ""
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

func DefaultKeyBindings() []KeyBinding {
	both := []string{scopeSidebar, scopePanes}
	return []KeyBinding{
		{Keys: []string{"q", "ctrl+c"}, Action: actionQuit, Description: "quit", Scopes: both},
		{Keys: []string{"ctrl+c"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeFilter}},
		{Keys: []string{"tab"}, Action: actionFocus, Description: "switch focus", Scopes: both},
		{Keys: []string{"k", "up"}, Action: actionUp, Description: "up", Scopes: both},
		{Keys: []string{"j", "down"}, Action: actionDown, Description: "down", Scopes: both},
		{Keys: []string{"g"}, Action: actionGrab, Description: "grab signal", Scopes: []string{scopeSidebar}},
		{Keys: []string{"enter"}, Action: actionDrop, Description: "drop here", Scopes: []string{scopePanes}},
		{Keys: []string{"esc"}, Action: actionCancel, Description: "cancel drag", Scopes: both},
		{Keys: []string{"a"}, Action: actionAddPane, Description: "add pane", Scopes: both},
		{Keys: []string{"x"}, Action: actionClosePane, Description: "close pane", Scopes: []string{scopePanes}},
		{Keys: []string{"+", "="}, Action: actionGrow, Description: "taller", Scopes: []string{scopePanes}},
		{Keys: []string{"-"}, Action: actionShrink, Description: "shorter", Scopes: []string{scopePanes}},
		{Keys: []string{"d"}, Action: actionDetach, Description: "remove last signal", Scopes: []string{scopePanes}},
		{Keys: []string{"e"}, Action: actionExport, Description: "export samples", Scopes: []string{scopePanes}},
		{Keys: []string{"u"}, Action: actionUndoExport, Description: "undo export", Scopes: []string{scopePanes}},
		{Keys: []string{"ctrl+r"}, Action: actionClearExports, Description: "clear exports", Scopes: []string{scopePanes}},
		{Keys: []string{"/"}, Action: actionFilter, Description: "filter", Scopes: []string{scopeSidebar}},
		{Keys: []string{"c"}, Action: actionCycleColor, Description: "color", Scopes: []string{scopeSidebar}},
		{Keys: []string{"n"}, Action: actionAddSignal, Description: "new signal", Scopes: []string{scopeSidebar}},
		{Keys: []string{"enter", "esc"}, Action: actionAccept, Description: "done", Scopes: []string{scopeFilter}},
	}
}
