package chat

import (
	"sort"
	"strings"

	"github.com/atomicstack/tcp-chat/internal/format/table"
	"github.com/atomicstack/tcp-chat/internal/logging/events"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Command is a local instruction typed into the input box.
type Command int

const (
	CommandNone Command = iota
	CommandConnect
	CommandDisconnect
	CommandClear
	CommandHelp
	CommandQuit
)

var commandNames = map[string]Command{
	"/connect":    CommandConnect,
	"/disconnect": CommandDisconnect,
	"/clear":      CommandClear,
	"/help":       CommandHelp,
	"/quit":       CommandQuit,
}

// String returns the command as typed.
func (c Command) String() string {
	for name, cmd := range commandNames {
		if cmd == c {
			return name
		}
	}
	return ""
}

// CommandNames returns the known commands in sorted order.
func CommandNames() []string {
	names := make([]string, 0, len(commandNames))
	for name := range commandNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parsed is the outcome of reading one submitted line.
type Parsed struct {
	// Command is set when the line resolved to a single local command.
	Command Command
	// Candidates lists the matches of an ambiguous abbreviation.
	Candidates []string
	// Text is what should be sent when no command applies.
	Text string
}

// Ambiguous reports whether the line matched several commands.
func (p Parsed) Ambiguous() bool {
	return len(p.Candidates) > 1
}

// ParseInput resolves a submitted line. A single word starting with "/" is
// matched against the known commands, abbreviations included ("/q", "/disc").
// A leading "//" escapes the slash and the rest is sent as text. Anything that
// matches no command is chat text.
func ParseInput(line string) Parsed {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "//") {
		return Parsed{Text: trimmed[1:]}
	}
	if !strings.HasPrefix(trimmed, "/") || strings.ContainsAny(trimmed, " \t") {
		return Parsed{Text: line}
	}

	if cmd, ok := commandNames[strings.ToLower(trimmed)]; ok {
		events.Chat.Resolve(trimmed, cmd.String(), nil)
		return Parsed{Command: cmd}
	}
	ranks := fuzzy.RankFindFold(trimmed, CommandNames())
	if len(ranks) == 0 {
		return Parsed{Text: line}
	}
	sort.Sort(ranks)
	candidates := make([]string, 0, len(ranks))
	for _, r := range ranks {
		candidates = append(candidates, r.Target)
	}
	if len(candidates) == 1 {
		cmd := commandNames[candidates[0]]
		events.Chat.Resolve(trimmed, cmd.String(), candidates)
		return Parsed{Command: cmd}
	}
	events.Chat.Resolve(trimmed, "", candidates)
	return Parsed{Candidates: candidates}
}

// HelpLines describes the local commands.
func HelpLines() []string {
	return table.Format([][]string{
		{"/connect", "connect to the server"},
		{"/disconnect", "close the connection"},
		{"/clear", "clear the message log"},
		{"/help", "show this help"},
		{"/quit", "leave the client"},
		{"//text", "send text that starts with a slash"},
	})
}
