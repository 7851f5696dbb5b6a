package data

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	DisplayName string    `db:"display_name"`
	Email       string    `db:"email"`
	Avatar      string    `db:"avatar"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Entry is a stored journal entry. Text is only ever read back whole and
// handed to the matcher; it is not indexed.
type Entry struct {
	ID        int       `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	Text      string    `db:"text"`
	Language  string    `db:"language"`
	Public    bool      `db:"public"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type EntryGrant struct {
	EntryID   int       `db:"entry_id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
