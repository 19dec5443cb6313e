package runner

import (
	"strconv"
	"strings"
)

// CommandKind is what a player asked for.
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandContinue
	CommandChoose
	CommandReset
	CommandQuit
)

// Command is one parsed line of player input.
type Command struct {
	Kind CommandKind
	ID   int
}

// ParseCommand reads a sanitized line. An empty line continues, a number
// (optionally after "choose") picks that choice.
func ParseCommand(line string) Command {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{Kind: CommandContinue}
	}
	if len(fields) == 2 && fields[0] == "choose" {
		fields = fields[1:]
	}
	if len(fields) != 1 {
		return Command{Kind: CommandUnknown}
	}

	switch fields[0] {
	case "c", "continue":
		return Command{Kind: CommandContinue}
	case "reset", "restart":
		return Command{Kind: CommandReset}
	case "q", "quit", "exit":
		return Command{Kind: CommandQuit}
	}
	if id, err := strconv.Atoi(fields[0]); err == nil {
		return Command{Kind: CommandChoose, ID: id}
	}
	return Command{Kind: CommandUnknown}
}
