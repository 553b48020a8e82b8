package engine

import (
	"strings"
)

// CommandPrefix marks an input line as a meta-command.
const CommandPrefix = ":"

type CommandType string

const (
	CmdHelp    CommandType = "help"
	CmdState   CommandType = "state"
	CmdInv     CommandType = "inv"
	CmdRewrite CommandType = "rewrite"
	CmdRestart CommandType = "restart"
	CmdSeeds   CommandType = "seeds"
	CmdQuit    CommandType = "quit"
	CmdNone    CommandType = "" // Unknown or empty, ignored
)

// HelpText lists the command surface.
const HelpText = "Commands: :help, :state, :inv, :rewrite [hopeful|tragic|twist], :restart, :seeds, :quit"

// Command is a parsed meta-command.
type Command struct {
	Type CommandType
	Args []string
}

// IsCommand reports whether a trimmed input line is a meta-command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), CommandPrefix)
}

// ParseCommand parses a line such as ":rewrite hopeful". The leading
// prefix is optional. The head is case-sensitive; unknown heads parse to CmdNone.
func ParseCommand(input string) Command {
	trimmed := strings.TrimPrefix(strings.TrimSpace(input), CommandPrefix)
	parts := strings.Fields(trimmed)
	if len(parts) == 0 {
		return Command{Type: CmdNone}
	}

	known := map[string]CommandType{
		"help":    CmdHelp,
		"state":   CmdState,
		"inv":     CmdInv,
		"rewrite": CmdRewrite,
		"restart": CmdRestart,
		"seeds":   CmdSeeds,
		"quit":    CmdQuit,
	}
	cmd, ok := known[parts[0]]
	if !ok {
		return Command{Type: CmdNone}
	}
	return Command{Type: cmd, Args: parts[1:]}
}

// Arg returns the i-th argument, or fallback when absent.
func (c Command) Arg(i int, fallback string) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return fallback
}
