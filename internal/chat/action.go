package chat

import (
	"strings"
)

type ActionKind int

const (
	ActionNoop ActionKind = iota
	ActionQuit
	ActionClear
	ActionSwitchModel
	ActionHelp
	ActionMessage
)

func (k ActionKind) String() string {
	switch k {
	case ActionNoop:
		return "noop"
	case ActionQuit:
		return "quit"
	case ActionClear:
		return "clear"
	case ActionSwitchModel:
		return "switch-model"
	case ActionHelp:
		return "help"
	case ActionMessage:
		return "message"
	}
	return "unknown"
}

// Action is the outcome of interpreting one line of input. Arg holds the alias
// for ActionSwitchModel and the text for ActionMessage.
type Action struct {
	Kind ActionKind
	Arg  string
}

const modelCommandPrefix = "/model "

// Interpret classifies a line of user input. Anything that is not one of the
// known commands, including unknown slash commands, is a regular message.
func Interpret(line string) Action {
	input := strings.TrimSpace(line)
	if input == "" {
		return Action{Kind: ActionNoop}
	}

	switch strings.ToLower(input) {
	case "/quit", "/exit", "/q":
		return Action{Kind: ActionQuit}
	}

	switch {
	case input == "/clear":
		return Action{Kind: ActionClear}
	case input == "/help":
		return Action{Kind: ActionHelp}
	case strings.HasPrefix(input, modelCommandPrefix):
		fields := strings.Fields(input)
		return Action{Kind: ActionSwitchModel, Arg: strings.ToLower(fields[1])}
	}

	return Action{Kind: ActionMessage, Arg: input}
}
