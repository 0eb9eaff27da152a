package database

import (
	"time"
)

// Channel is a persisted channel row. ChannelID holds the external identifier
// the feed assigned; ID is the internal identity assigned on insert.
type Channel struct {
	ID        int64
	Name      string
	ChannelID string
	IconURL   string
}

// Program is a persisted program row. ChannelID references the owning
// channel's internal identity; program rows are deleted with their channel.
type Program struct {
	ID          int64
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Category    string
	ChannelID   int64
}

// ChannelWithCount is a channel row together with its program count, as
// returned by the paginated channel listing.
type ChannelWithCount struct {
	Channel
	ProgramCount int
}
