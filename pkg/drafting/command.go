package drafting

import (
	"strconv"
	"strings"
)

const (
	PrefixDraft = "/draft"
	PrefixVars  = "/vars"
)

type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandDraft
	CommandVars
)

// Command is a parsed slash command.
type Command struct {
	Kind  CommandKind
	Query string // for /draft; surrounding quotes removed
}

// ParseCommand recognises /draft <query> and /vars. Anything else is CommandNone.
func ParseCommand(message string) Command {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)

	if hasCommandPrefix(lower, PrefixDraft) {
		query := strings.TrimSpace(trimmed[len(PrefixDraft):])
		query = strings.TrimSpace(strings.Trim(query, `"'`))
		return Command{Kind: CommandDraft, Query: query}
	}
	if hasCommandPrefix(lower, PrefixVars) {
		return Command{Kind: CommandVars}
	}
	return Command{Kind: CommandNone}
}

// hasCommandPrefix requires the prefix to end at a word boundary so "/drafts" is text.
func hasCommandPrefix(lower, prefix string) bool {
	if !strings.HasPrefix(lower, prefix) {
		return false
	}
	rest := lower[len(prefix):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n'
}

var confirmationTokens = map[string]struct{}{
	"yes":      {},
	"y":        {},
	"use this": {},
	"proceed":  {},
	"continue": {},
}

// IsConfirmation reports whether message accepts the current template.
func IsConfirmation(message string) bool {
	_, ok := confirmationTokens[strings.ToLower(strings.TrimSpace(message))]
	return ok
}

// ParseIndex parses a 1-based selection. It does not check the upper bound.
func ParseIndex(message string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
