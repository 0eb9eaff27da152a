package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ GuideStore = (*GuideRepository)(nil)

// GuideRepository performs the full-replace write path for the persisted
// guide. All mutation happens inside a single transaction scoped to one
// ReplaceGuide call.
type GuideRepository struct {
	db *DB
}

// NewGuideRepository creates a new guide repository
func NewGuideRepository(db *DB) *GuideRepository {
	return &GuideRepository{db: db}
}

// ReplaceGuide opens a transaction, runs fn against it, and commits. Any error
// from fn or from commit rolls the whole replacement back.
func (r *GuideRepository) ReplaceGuide(ctx context.Context, fn func(tx GuideTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	gtx := &guideTx{tx: tx}
	if err := fn(gtx); err != nil {
		gtx.closeStmt()
		tx.Rollback()
		return err
	}
	gtx.closeStmt()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit guide replacement: %w", err)
	}

	return nil
}

type guideTx struct {
	tx          *sql.Tx
	programStmt *sql.Stmt
}

func (t *guideTx) closeStmt() {
	if t.programStmt != nil {
		t.programStmt.Close()
		t.programStmt = nil
	}
}

// DeleteAllPrograms removes every persisted program. Programs are deleted
// before channels, matching the ownership cascade.
func (t *guideTx) DeleteAllPrograms() error {
	if _, err := t.tx.Exec(`DELETE FROM programs`); err != nil {
		return fmt.Errorf("failed to delete programs: %w", err)
	}
	return nil
}

// DeleteAllChannels removes every persisted channel.
func (t *guideTx) DeleteAllChannels() error {
	if _, err := t.tx.Exec(`DELETE FROM channels`); err != nil {
		return fmt.Errorf("failed to delete channels: %w", err)
	}
	return nil
}

// InsertChannel inserts a channel row and returns its internal identity.
func (t *guideTx) InsertChannel(ch Channel) (int64, error) {
	res, err := t.tx.Exec(`
		INSERT INTO channels (name, channel_id, icon_url)
		VALUES (?, ?, ?)
	`, ch.Name, ch.ChannelID, nullable(ch.IconURL))
	if err != nil {
		return 0, fmt.Errorf("failed to insert channel: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get channel id: %w", err)
	}

	return id, nil
}

// InsertProgram inserts a program row referencing an already-inserted channel.
// The insert statement is prepared once per transaction, since a reload
// inserts programs in bulk.
func (t *guideTx) InsertProgram(p Program) error {
	if t.programStmt == nil {
		stmt, err := t.tx.Prepare(`
			INSERT INTO programs (title, description, start_time, end_time, category, channel_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare program insert: %w", err)
		}
		t.programStmt = stmt
	}

	_, err := t.programStmt.Exec(p.Title, nullable(p.Description), p.StartTime.UTC(),
		p.EndTime.UTC(), nullable(p.Category), p.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to insert program: %w", err)
	}
	return nil
}

// nullable maps an empty string to NULL for optional text columns.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
