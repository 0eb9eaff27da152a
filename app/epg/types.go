package epg

import (
	"time"
)

// Channel is a channel entry as parsed from an EPG feed. ID is the
// feed-assigned external identifier, already trimmed.
type Channel struct {
	ID      string
	Name    string
	IconURL string
}

// Program is a program entry as parsed from an EPG feed. ChannelID is the
// external channel identifier the entry references; it is resolved to an
// internal channel during a reload. Start and End are canonical UTC instants.
type Program struct {
	ChannelID   string
	Title       string
	Description string
	Category    string
	Start       time.Time
	End         time.Time
}

// Guide is the normalized result of parsing one EPG feed. Skipped counts
// programs dropped during parsing because their timestamps were unparsable.
type Guide struct {
	Channels []Channel
	Programs []Program
	Skipped  int
}
