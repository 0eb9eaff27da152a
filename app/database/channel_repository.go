package database

import (
	"database/sql"
	"fmt"
)

var _ ChannelStore = (*ChannelRepository)(nil)

// ChannelRepository handles read queries for persisted channels
type ChannelRepository struct {
	db *DB
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(db *DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// GetChannel retrieves a channel by its internal id
func (r *ChannelRepository) GetChannel(id int64) (*Channel, error) {
	var ch Channel
	err := r.db.QueryRow(`
		SELECT id, name, channel_id, COALESCE(icon_url, '')
		FROM channels
		WHERE id = ?
	`, id).Scan(&ch.ID, &ch.Name, &ch.ChannelID, &ch.IconURL)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return &ch, nil
}

// ListChannels returns a page of channels whose name starts with the given
// prefix (an empty prefix matches all), each with its program count, ordered
// by external channel identifier.
func (r *ChannelRepository) ListChannels(namePrefix string, limit, offset int) ([]ChannelWithCount, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.name, c.channel_id, COALESCE(c.icon_url, ''), COUNT(p.id)
		FROM channels c
		LEFT JOIN programs p ON p.channel_id = c.id
		WHERE c.name LIKE ? || '%'
		GROUP BY c.id
		ORDER BY c.channel_id COLLATE NOCASE
		LIMIT ? OFFSET ?
	`, namePrefix, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []ChannelWithCount
	for rows.Next() {
		var ch ChannelWithCount
		err := rows.Scan(&ch.ID, &ch.Name, &ch.ChannelID, &ch.IconURL, &ch.ProgramCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		channels = append(channels, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel rows: %w", err)
	}

	return channels, nil
}

// GetChannelCount returns the number of channels whose name starts with the
// given prefix (an empty prefix counts all)
func (r *ChannelRepository) GetChannelCount(namePrefix string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM channels WHERE name LIKE ? || '%'
	`, namePrefix).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get channel count: %w", err)
	}
	return count, nil
}

// GetChannelNames returns the display names of all channels
func (r *ChannelRepository) GetChannelNames() ([]string, error) {
	rows, err := r.db.Query(`SELECT name FROM channels`)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan channel name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel names: %w", err)
	}

	return names, nil
}
