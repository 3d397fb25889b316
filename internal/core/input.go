package core

// Action represents a semantic quiz action, abstracted from physical key presses.
// The presentation layer maps keys to actions; round and menu logic only
// sees actions.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // K, Up arrow - move cursor up
	ActionDown               // J, Down arrow - move cursor down
	ActionLeft               // H, Left arrow - previous option
	ActionRight              // L, Right arrow - next option
	ActionConfirm            // Enter, Space - submit highlighted option / select game
	ActionAnswer             // 1-9 - submit option directly (see Input.Option)
	ActionNext               // N - next question after feedback
	ActionHint               // ? - reveal the hint for the current question
	ActionToggleHints        // T - per-session hint switch
	ActionRestart            // R - play again after game over
	ActionSettings           // O - open settings
	ActionScoreboard         // Tab - open scoreboard
	ActionBack               // B, Escape - go back to the game index
	ActionQuit               // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionAnswer:
		return "Answer"
	case ActionNext:
		return "Next"
	case ActionHint:
		return "Hint"
	case ActionToggleHints:
		return "ToggleHints"
	case ActionRestart:
		return "Restart"
	case ActionSettings:
		return "Settings"
	case ActionScoreboard:
		return "Scoreboard"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Input is a single decoded user intent.
type Input struct {
	Action Action
	// Option is the zero-based answer index for ActionAnswer, -1 otherwise.
	Option int
}

// NewInput creates an input for an action that carries no option.
func NewInput(a Action) Input {
	return Input{Action: a, Option: -1}
}

// AnswerInput creates an ActionAnswer input for the given option index.
func AnswerInput(option int) Input {
	return Input{Action: ActionAnswer, Option: option}
}

// IsQuit reports whether the input requests leaving the program.
func (in Input) IsQuit() bool {
	return in.Action == ActionQuit
}
