package handlers

import (
	"net/http"

	"github.com/kova98/nearmatch.api/models"
)

type UserHandler struct {
	userRepo  UserStore
	entryRepo EntryStore
}

func NewUserHandler(users UserStore, entries EntryStore) *UserHandler {
	return &UserHandler{
		userRepo:  users,
		entryRepo: entries,
	}
}

func (h UserHandler) InitializeUser(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	exists, err := h.userRepo.GetUserByID(user.ID)
	if err != nil {
		return InternalError(err, "initialize user: get user")
	}
	if exists != nil {
		return Ok(map[string]interface{}{"id": user.ID})
	}

	id, err := h.userRepo.InsertUser(user)
	if err != nil {
		return InternalError(err, "initialize user: insert user")
	}

	return Created(id)
}

func (h UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	entries, err := h.entryRepo.GetEntriesByOwnerID(user.ID)
	if err != nil {
		return InternalError(err, "get current user: get entries")
	}

	model := models.UserModel{
		ID:          user.ID,
		Name:        user.Name,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Avatar:      user.Avatar,
		EntryCount:  len(entries),
	}
	for _, e := range entries {
		if e.Public {
			model.PublicEntryCount++
		}
	}

	return Ok(model)
}
