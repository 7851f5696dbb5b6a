package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/kova98/nearmatch.api/data"
)

// The repos package implements these against Postgres.

type UserStore interface {
	InsertUser(user data.User) (uuid.UUID, error)
	GetUserByID(id uuid.UUID) (*data.User, error)
	GetUsersByIDs(ids []uuid.UUID) ([]data.User, error)
}

type EntryStore interface {
	CreateEntry(entry data.Entry) (int, error)
	GetEntriesByOwnerID(ownerID uuid.UUID) ([]data.Entry, error)
	GetEntryByID(id int, ownerID uuid.UUID) (*data.Entry, error)
	GetEntryForViewer(id int, viewerID uuid.UUID) (*data.EntryAccess, error)
	UpdateEntry(entry data.Entry) (bool, error)
	DeleteEntry(id int, ownerID uuid.UUID) error
}

type GrantStore interface {
	CreateGrant(grant data.EntryGrant) error
	GetGrantsByEntryIDs(entryIDs []int) ([]data.EntryGrant, error)
	DeleteGrant(entryID int, userID uuid.UUID) error
}

type LanguageDetector interface {
	Detect(text string) string
}

type contextKey string

const userContextKey contextKey = "user"

func WithUser(ctx context.Context, user data.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFrom returns the authenticated user, if any.
func UserFrom(ctx context.Context) (data.User, bool) {
	user, ok := ctx.Value(userContextKey).(data.User)
	return user, ok
}
