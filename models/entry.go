package models

import (
	"time"

	"github.com/google/uuid"
)

type CreateEntryRequest struct {
	Text   string `json:"text"`
	Public bool   `json:"public"`
}

type UpdateEntryRequest struct {
	Text   string `json:"text"`
	Public bool   `json:"public"`
}

type Entry struct {
	ID        int       `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Text      string    `json:"text"`
	Language  string    `json:"language"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Grants    []Grant   `json:"grants,omitempty"`
}

type GetEntriesResponse struct {
	Entries []Entry `json:"entries"`
}

type CreateGrantRequest struct {
	UserID uuid.UUID `json:"userId"`
}

type Grant struct {
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
