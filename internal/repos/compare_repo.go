package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// CompareRepo stores each session's compare selection as ordered rows.
type CompareRepo struct{ db *sqlx.DB }

func NewCompareRepo(db *sqlx.DB) *CompareRepo { return &CompareRepo{db: db} }

// Load returns the session's product ids in the order they were added.
func (r *CompareRepo) Load(sessionID string) ([]string, error) {
	var ids []string
	err := r.db.Select(&ids, `
	  SELECT product_id FROM compare_items
	  WHERE session_id = ?
	  ORDER BY position
	`, sessionID)
	return ids, err
}

// Replace swaps the stored selection for ids.
func (r *CompareRepo) Replace(sessionID string, ids []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM compare_items WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for i, id := range ids {
		if _, err := tx.Exec(`
		  INSERT INTO compare_items(session_id, product_id, position, created_at)
		  VALUES(?, ?, ?, ?)
		`, sessionID, id, i, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Move hands the selection stored under from over to to.
func (r *CompareRepo) Move(from, to string) error {
	_, err := r.db.Exec(`UPDATE compare_items SET session_id = ? WHERE session_id = ?`, to, from)
	return err
}
