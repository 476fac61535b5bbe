package bot

import (
	"errors"
	"regexp"
	"strings"
)

// CommandPrefix starts every bot command. A leading PrivateMarker in front
// of the prefix routes the reply to the invoker's DMs instead.
const (
	CommandPrefix = "#"
	PrivateMarker = "?"
)

var ErrMissingMode = errors.New("game mode missing")

// Command is one parsed chat command.
type Command struct {
	Name    string
	Args    string
	Private bool
}

// ParseCommand splits a raw chat message into a command. The second return
// is false for anything that is not addressed to the bot.
func ParseCommand(content string) (Command, bool) {
	text := strings.TrimSpace(content)

	cmd := Command{}
	if strings.HasPrefix(text, PrivateMarker) {
		cmd.Private = true
		text = strings.TrimPrefix(text, PrivateMarker)
	}

	if !strings.HasPrefix(text, CommandPrefix) {
		return Command{}, false
	}
	text = strings.TrimPrefix(text, CommandPrefix)

	parts := strings.SplitN(text, " ", 2)
	if parts[0] == "" {
		return Command{}, false
	}

	cmd.Name = strings.ToLower(parts[0])
	if len(parts) == 2 {
		cmd.Args = strings.TrimSpace(parts[1])
	}

	return cmd, true
}

var gameArgsPat = regexp.MustCompile(`^(.*?)(?:\s+mode=(\w+))?$`)

// parseGameArgs splits "#game" arguments into the playlist reference and
// the mode token. The reference may contain spaces, the mode is the
// trailing "mode=" token.
func parseGameArgs(args string) (ref, mode string, err error) {
	match := gameArgsPat.FindStringSubmatch(strings.TrimSpace(args))
	if match == nil || match[2] == "" {
		return "", "", ErrMissingMode
	}

	ref = strings.TrimSpace(match[1])
	if ref == "" {
		return "", "", ErrMissingMode
	}

	return ref, match[2], nil
}
