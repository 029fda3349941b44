package view

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/linecore/core"
)

// Action is what a key asks the view to do.
type Action int

// Key actions.
const (
	ActionNone Action = iota
	ActionSubmit
	ActionSave
	ActionQuit
)

// Translate converts a key event into an action and, for ActionSubmit, the
// request to submit.
func Translate(ev *tcell.EventKey) (Action, core.Request) {
	extend := ev.Modifiers()&tcell.ModShift != 0
	submit := func(method string) (Action, core.Request) {
		return ActionSubmit, core.Request{Method: method, Extend: extend}
	}

	switch ev.Key() {
	case tcell.KeyRune:
		return ActionSubmit, core.Request{Method: "insert", Text: string(ev.Rune())}
	case tcell.KeyEnter:
		return ActionSubmit, core.Request{Method: "insert", Text: "\n"}
	case tcell.KeyTab:
		return ActionSubmit, core.Request{Method: "insert", Text: "\t"}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ActionSubmit, core.Request{Method: "delete_backward"}
	case tcell.KeyDelete:
		return ActionSubmit, core.Request{Method: "delete_forward"}
	case tcell.KeyLeft:
		return submit("move_left")
	case tcell.KeyRight:
		return submit("move_right")
	case tcell.KeyUp:
		return submit("move_up")
	case tcell.KeyDown:
		return submit("move_down")
	case tcell.KeyHome, tcell.KeyCtrlA:
		return submit("move_line_start")
	case tcell.KeyEnd, tcell.KeyCtrlE:
		return submit("move_line_end")
	case tcell.KeyEscape:
		return ActionSubmit, core.Request{Method: "collapse_selections"}
	case tcell.KeyCtrlZ:
		return ActionSubmit, core.Request{Method: "undo"}
	case tcell.KeyCtrlY:
		return ActionSubmit, core.Request{Method: "redo"}
	case tcell.KeyCtrlS:
		return ActionSave, core.Request{}
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return ActionQuit, core.Request{}
	}
	return ActionNone, core.Request{}
}
