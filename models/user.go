package models

import (
	"github.com/google/uuid"
)

// UserModel is the signed-in user's profile with a summary of their journal.
type UserModel struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	DisplayName      string    `json:"displayName"`
	Email            string    `json:"email"`
	Avatar           string    `json:"avatar"`
	EntryCount       int       `json:"entryCount"`
	PublicEntryCount int       `json:"publicEntryCount"`
}
