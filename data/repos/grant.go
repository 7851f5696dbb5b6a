package repos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kova98/nearmatch.api/data"
)

type GrantRepo struct {
	db *sqlx.DB
}

func NewGrantRepo(db *sqlx.DB) *GrantRepo {
	return &GrantRepo{db}
}

func (r *GrantRepo) CreateGrant(grant data.EntryGrant) error {
	query := `
		INSERT INTO entry_grants (entry_id, user_id, created_at)
		VALUES (:entry_id, :user_id, now())
		ON CONFLICT (entry_id, user_id) DO NOTHING`

	_, err := r.db.NamedExec(query, grant)
	if err != nil {
		return fmt.Errorf("create grant: %w", err)
	}

	return nil
}

func (r *GrantRepo) GetGrantsByEntryIDs(entryIDs []int) ([]data.EntryGrant, error) {
	if len(entryIDs) == 0 {
		return []data.EntryGrant{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT entry_id, user_id, created_at
		FROM entry_grants
		WHERE entry_id IN (?)
		ORDER BY entry_id, created_at`, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("build get grants by entry ids: %w", err)
	}
	query = r.db.Rebind(query)

	var grants []data.EntryGrant
	if err = r.db.Select(&grants, query, args...); err != nil {
		return nil, fmt.Errorf("get grants by entry ids: %w", err)
	}

	return grants, nil
}

func (r *GrantRepo) DeleteGrant(entryID int, userID uuid.UUID) error {
	query := "DELETE FROM entry_grants WHERE entry_id = $1 AND user_id = $2"
	_, err := r.db.Exec(query, entryID, userID)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}

	return nil
}
