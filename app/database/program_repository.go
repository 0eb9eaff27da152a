package database

import (
	"fmt"
)

var _ ProgramStore = (*ProgramRepository)(nil)

// ProgramRepository handles read queries for persisted programs
type ProgramRepository struct {
	db *DB
}

// NewProgramRepository creates a new program repository
func NewProgramRepository(db *DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// GetProgramsByChannel returns all programs for a channel ordered by start time
func (r *ProgramRepository) GetProgramsByChannel(channelID int64) ([]Program, error) {
	rows, err := r.db.Query(`
		SELECT id, title, COALESCE(description, ''), start_time, end_time,
		       COALESCE(category, ''), channel_id
		FROM programs
		WHERE channel_id = ?
		ORDER BY start_time
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get programs: %w", err)
	}
	defer rows.Close()

	var programs []Program
	for rows.Next() {
		var p Program
		err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.StartTime, &p.EndTime,
			&p.Category, &p.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan program row: %w", err)
		}
		programs = append(programs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating program rows: %w", err)
	}

	return programs, nil
}

// GetProgramCount returns the total number of persisted programs
func (r *ProgramRepository) GetProgramCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM programs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get program count: %w", err)
	}
	return count, nil
}
