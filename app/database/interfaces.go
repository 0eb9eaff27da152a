package database

import (
	"context"
)

// ChannelStore provides read access to persisted channels.
type ChannelStore interface {
	GetChannel(id int64) (*Channel, error)
	ListChannels(namePrefix string, limit, offset int) ([]ChannelWithCount, error)
	GetChannelCount(namePrefix string) (int, error)
	GetChannelNames() ([]string, error)
}

// ProgramStore provides read access to persisted programs.
type ProgramStore interface {
	GetProgramsByChannel(channelID int64) ([]Program, error)
	GetProgramCount() (int, error)
}

// GuideTx is the write surface available inside one guide replacement
// transaction. Inserted channel rows return their internal identity
// immediately, so programs referencing them can be inserted in the same
// transaction.
type GuideTx interface {
	DeleteAllPrograms() error
	DeleteAllChannels() error
	InsertChannel(ch Channel) (int64, error)
	InsertProgram(p Program) error
}

// GuideStore replaces the entire persisted guide as one atomic unit. The
// callback runs inside a transaction; any error rolls everything back, so
// readers see either the prior complete dataset or the new one, never a mix.
type GuideStore interface {
	ReplaceGuide(ctx context.Context, fn func(tx GuideTx) error) error
}
