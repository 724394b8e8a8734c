package intent

import "strings"

type Kind int

const (
	None Kind = iota
	OpenApp
	WebSearch
	WikipediaLookup
	PlayMusic
	TimeQuery
	Chat
)

func (k Kind) String() string {
	switch k {
	case OpenApp:
		return "open_app"
	case WebSearch:
		return "web_search"
	case WikipediaLookup:
		return "wikipedia"
	case PlayMusic:
		return "play_music"
	case TimeQuery:
		return "time"
	case Chat:
		return "chat"
	default:
		return "none"
	}
}

// Intent is the classified purpose of one utterance plus its residual
// argument text. It is never persisted.
type Intent struct {
	Kind Kind
	Arg  string
}

// Classify maps a typed or recognized command string to an Intent.
// Rules are checked in priority order against the lowercased, trimmed
// input; anything unrecognized falls through to Chat with the full
// input as the prompt. Whitespace-only input classifies to None.
func Classify(raw string) Intent {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Intent{Kind: None}
	}

	cmd := strings.ToLower(raw)

	switch {
	case strings.HasPrefix(cmd, "open "):
		return Intent{Kind: OpenApp, Arg: strings.TrimSpace(cmd[len("open "):])}

	case strings.HasPrefix(cmd, "search "):
		// keep original casing for the query
		return Intent{Kind: WebSearch, Arg: strings.TrimSpace(raw[len("search "):])}

	case strings.HasPrefix(cmd, "wikipedia "):
		return Intent{Kind: WikipediaLookup, Arg: strings.TrimSpace(raw[len("wikipedia "):])}

	case strings.HasPrefix(cmd, "play music"):
		return Intent{Kind: PlayMusic}

	case strings.Contains(cmd, "time") && len(strings.Fields(cmd)) <= 3:
		return Intent{Kind: TimeQuery}

	case strings.HasPrefix(cmd, "chat ") || strings.HasPrefix(cmd, "talk "):
		_, arg, _ := strings.Cut(raw, " ")
		return Intent{Kind: Chat, Arg: arg}
	}

	return Intent{Kind: Chat, Arg: raw}
}
