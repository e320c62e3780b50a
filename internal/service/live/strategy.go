package live

import "strings"

// Strategy is one way of fetching the live streams of a channel
type Strategy int

const (
	StrategyGiveUp Strategy = iota
	StrategyLocalAPI
	StrategyLocalRSS
	StrategyRemoteAPI
	StrategyRemoteRSS
)

// maxAttempt is the last attempt index that may still escalate
const maxAttempt = 2

func (s Strategy) String() string {
	switch s {
	case StrategyLocalAPI:
		return "local-api"
	case StrategyLocalRSS:
		return "local-rss"
	case StrategyRemoteAPI:
		return "remote-api"
	case StrategyRemoteRSS:
		return "remote-rss"
	default:
		return "give-up"
	}
}

// IsLocal reports whether s talks to YouTube directly
func (s Strategy) IsLocal() bool {
	return s == StrategyLocalAPI || s == StrategyLocalRSS
}

// IsRSS reports whether s reads an RSS feed
func (s Strategy) IsRSS() bool {
	return s == StrategyLocalRSS || s == StrategyRemoteRSS
}

// escalation holds, per failed strategy, the next strategy for attempts 0..2.
// Index 1 is the cross-backend step and is gated by the fallback setting.
var escalation = map[Strategy][maxAttempt + 1]Strategy{
	StrategyLocalAPI:  {StrategyLocalRSS, StrategyRemoteAPI, StrategyLocalRSS},
	StrategyLocalRSS:  {StrategyLocalAPI, StrategyRemoteRSS, StrategyLocalAPI},
	StrategyRemoteAPI: {StrategyRemoteRSS, StrategyLocalAPI, StrategyRemoteRSS},
	StrategyRemoteRSS: {StrategyRemoteAPI, StrategyLocalRSS, StrategyRemoteAPI},
}

// nextOnFailure returns the strategy to try after failed ran at attempt and
// failed. The returned strategy runs at attempt+1.
func nextOnFailure(failed Strategy, attempt int, fallback, desktop bool) Strategy {
	steps, ok := escalation[failed]
	if !ok || attempt < 0 || attempt > maxAttempt {
		return StrategyGiveUp
	}

	next := steps[attempt]
	if next.IsLocal() != failed.IsLocal() {
		if !fallback {
			return StrategyGiveUp
		}
		// the local backend only exists on the desktop
		if next.IsLocal() && !desktop {
			return StrategyGiveUp
		}
	}
	return next
}

// initialStrategy picks the first strategy of a channel fetch
func initialStrategy(settings Settings, useRSS bool) Strategy {
	remote := settings.Backend == BackendInvidious || !settings.Desktop
	switch {
	case remote && useRSS:
		return StrategyRemoteRSS
	case remote:
		return StrategyRemoteAPI
	case useRSS:
		return StrategyLocalRSS
	default:
		return StrategyLocalAPI
	}
}

// playlistID converts a channel id into the id of its live streams playlist
func playlistID(channelID string) string {
	return strings.Replace(channelID, "UC", "UULV", 1)
}
