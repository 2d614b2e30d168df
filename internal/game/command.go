package game

import "fmt"

// CommandKind enumerates the session transitions reachable through Apply.
type CommandKind int

const (
	CmdEnterValue CommandKind = iota
	CmdClearCell
	CmdToggleNote
	CmdUndo
	CmdRedo
	CmdUseHint
	CmdPause
	CmdResume
)

func (k CommandKind) String() string {
	switch k {
	case CmdEnterValue:
		return "enter_value"
	case CmdClearCell:
		return "clear_cell"
	case CmdToggleNote:
		return "toggle_note"
	case CmdUndo:
		return "undo"
	case CmdRedo:
		return "redo"
	case CmdUseHint:
		return "use_hint"
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is the uniform request shape for callers that drive a session
// through a single entry point, e.g. a UI event loop mapping key presses to
// transitions. Row, Col, and Digit are read only by the kinds that need
// them.
type Command struct {
	Kind  CommandKind
	Row   int
	Col   int
	Digit int
}

// Apply dispatches cmd to the matching session method.
func (s *Session) Apply(cmd Command) (Snapshot, error) {
	switch cmd.Kind {
	case CmdEnterValue:
		return s.EnterValue(cmd.Row, cmd.Col, cmd.Digit)
	case CmdClearCell:
		return s.ClearCell(cmd.Row, cmd.Col)
	case CmdToggleNote:
		return s.ToggleNote(cmd.Row, cmd.Col, cmd.Digit)
	case CmdUndo:
		return s.Undo()
	case CmdRedo:
		return s.Redo()
	case CmdUseHint:
		return s.UseHint(cmd.Row, cmd.Col)
	case CmdPause:
		return s.Pause()
	case CmdResume:
		return s.Resume()
	}
	return s.snapshot(nil), fmt.Errorf("unknown command %v", cmd.Kind)
}
