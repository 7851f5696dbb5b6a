package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kova98/nearmatch.api/data"
)

type EntryRepo struct {
	db *sqlx.DB
}

func NewEntryRepo(db *sqlx.DB) *EntryRepo {
	return &EntryRepo{db}
}

func (r *EntryRepo) CreateEntry(entry data.Entry) (int, error) {
	query := `
		INSERT INTO entries (owner_id, text, language, public)
		VALUES (:owner_id, :text, :language, :public)
		RETURNING id`

	rows, err := r.db.NamedQuery(query, entry)
	if err != nil {
		return 0, fmt.Errorf("create entry: %w", err)
	}
	defer rows.Close()

	var id int
	if rows.Next() {
		if err = rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scan returned id: %w", err)
		}
	}

	return id, nil
}

func (r *EntryRepo) GetEntriesByOwnerID(ownerID uuid.UUID) ([]data.Entry, error) {
	var entries []data.Entry
	query := `
		SELECT id, owner_id, text, language, public, created_at, updated_at
		FROM entries
		WHERE owner_id = $1
		ORDER BY id ASC`

	err := r.db.Select(&entries, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get entries by owner id: %w", err)
	}

	return entries, nil
}

func (r *EntryRepo) GetEntryByID(id int, ownerID uuid.UUID) (*data.Entry, error) {
	var entry data.Entry
	query := "SELECT * FROM entries WHERE id = $1 AND owner_id = $2"

	err := r.db.Get(&entry, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry by id: %w", err)
	}

	return &entry, nil
}

// GetEntryForViewer loads an entry regardless of owner and reports whether
// viewerID holds a read grant on it. viewerID may be uuid.Nil for anonymous
// viewers, who never hold grants.
func (r *EntryRepo) GetEntryForViewer(id int, viewerID uuid.UUID) (*data.EntryAccess, error) {
	var entry data.EntryAccess
	query := `
		SELECT e.id, e.owner_id, e.text, e.language, e.public, e.created_at, e.updated_at,
			EXISTS (
				SELECT 1 FROM entry_grants g
				WHERE g.entry_id = e.id AND g.user_id = $2
			) AS granted
		FROM entries e
		WHERE e.id = $1`

	err := r.db.Get(&entry, query, id, viewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry for viewer: %w", err)
	}

	return &entry, nil
}

func (r *EntryRepo) UpdateEntry(entry data.Entry) (bool, error) {
	query := `
		UPDATE entries
		SET text = :text, language = :language, public = :public, updated_at = now()
		WHERE id = :id AND owner_id = :owner_id`

	res, err := r.db.NamedExec(query, entry)
	if err != nil {
		return false, fmt.Errorf("update entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update entry: rows affected: %w", err)
	}

	return n > 0, nil
}

func (r *EntryRepo) DeleteEntry(id int, ownerID uuid.UUID) error {
	query := "DELETE FROM entries WHERE id = $1 AND owner_id = $2"
	_, err := r.db.Exec(query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	return nil
}
