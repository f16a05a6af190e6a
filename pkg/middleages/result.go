package middleages

// Result describes the state of the game after an action.
type Result int

const (
	ResultOngoing Result = iota
	ResultWin
	ResultDraw
	ResultLose
	ResultWrongCommand
)

func (r Result) String() string {
	switch r {
	case ResultOngoing:
		return "ongoing"
	case ResultWin:
		return "win"
	case ResultDraw:
		return "draw"
	case ResultLose:
		return "lose"
	case ResultWrongCommand:
		return "wrong_command"
	default:
		return "unknown"
	}
}

// Terminal reports whether the game is over.
func (r Result) Terminal() bool {
	return r != ResultOngoing
}

// ExitCode is the process status reported for a final result.
func (r Result) ExitCode() int {
	switch r {
	case ResultWin:
		return 0
	case ResultDraw:
		return 1
	case ResultLose:
		return 2
	default:
		return 42
	}
}
