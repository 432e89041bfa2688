package client

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/drwfalls/gameplay"
)

// Action is a local command bound to a key
type Action uint8

const (
	ActionNone Action = iota
	ActionMove
	ActionReady
	ActionPause
	ActionMute
	ActionQuit
)

// KeyAction maps a key event to an action; Move is set for ActionMove
func KeyAction(ev *tcell.EventKey) (Action, gameplay.Move) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, 0
	case tcell.KeyLeft:
		return ActionMove, gameplay.MoveLeft
	case tcell.KeyRight:
		return ActionMove, gameplay.MoveRight
	case tcell.KeyDown:
		return ActionMove, gameplay.MoveDrop
	case tcell.KeyUp:
		return ActionMove, gameplay.MoveRotateCW
	case tcell.KeyEnter:
		return ActionReady, 0
	case tcell.KeyRune:
	default:
		return ActionNone, 0
	}

	switch ev.Rune() {
	case 'h', 'a':
		return ActionMove, gameplay.MoveLeft
	case 'l', 'd':
		return ActionMove, gameplay.MoveRight
	case 'j', 's', ' ':
		return ActionMove, gameplay.MoveDrop
	case 'k', 'e':
		return ActionMove, gameplay.MoveRotateCW
	case 'q':
		return ActionMove, gameplay.MoveRotateCCW
	case 'r':
		return ActionReady, 0
	case 'p':
		return ActionPause, 0
	case 'm':
		return ActionMute, 0
	}
	return ActionNone, 0
}
