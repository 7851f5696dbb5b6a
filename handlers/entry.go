package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kova98/nearmatch.api/data"
	"github.com/kova98/nearmatch.api/models"
)

type EntryHandler struct {
	entries        EntryStore
	grants         GrantStore
	users          UserStore
	detector       LanguageDetector
	maxEntryLength int
}

func NewEntryHandler(entries EntryStore, grants GrantStore, users UserStore, detector LanguageDetector, maxEntryLength int) *EntryHandler {
	return &EntryHandler{
		entries:        entries,
		grants:         grants,
		users:          users,
		detector:       detector,
		maxEntryLength: maxEntryLength,
	}
}

func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	var req models.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if res, ok := h.validateText(req.Text); !ok {
		return res
	}

	id, err := h.entries.CreateEntry(data.Entry{
		OwnerID:  user.ID,
		Text:     req.Text,
		Language: h.detector.Detect(req.Text),
		Public:   req.Public,
	})
	if err != nil {
		return InternalError(err, "create entry: ")
	}

	return Created(id)
}

func (h *EntryHandler) GetEntries(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	entries, err := h.entries.GetEntriesByOwnerID(user.ID)
	if err != nil {
		return InternalError(err, "get entries: ")
	}

	res := &models.GetEntriesResponse{Entries: make([]models.Entry, 0, len(entries))}
	for _, e := range entries {
		res.Entries = append(res.Entries, toEntryModel(e))
	}

	return Ok(res)
}

func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid entry ID.")
	}

	entry, err := h.entries.GetEntryByID(id, user.ID)
	if err != nil {
		return InternalError(err, "get entry: ")
	}
	if entry == nil {
		return NotFound("Entry not found.")
	}

	grants, err := h.grants.GetGrantsByEntryIDs([]int{entry.ID})
	if err != nil {
		return InternalError(err, "get entry: get grants")
	}

	userIDs := make([]uuid.UUID, 0, len(grants))
	for _, g := range grants {
		userIDs = append(userIDs, g.UserID)
	}
	users, err := h.users.GetUsersByIDs(userIDs)
	if err != nil {
		return InternalError(err, "get entry: get grantees")
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	res := toEntryModel(*entry)
	for _, g := range grants {
		res.Grants = append(res.Grants, models.Grant{
			UserID:    g.UserID,
			Name:      names[g.UserID],
			CreatedAt: g.CreatedAt,
		})
	}

	return Ok(res)
}

func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid entry ID.")
	}

	var req models.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if res, ok := h.validateText(req.Text); !ok {
		return res
	}

	updated, err := h.entries.UpdateEntry(data.Entry{
		ID:       id,
		OwnerID:  user.ID,
		Text:     req.Text,
		Language: h.detector.Detect(req.Text),
		Public:   req.Public,
	})
	if err != nil {
		return InternalError(err, "update entry: ")
	}
	if !updated {
		return NotFound("Entry not found.")
	}

	return Ok(nil)
}

func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid entry ID.")
	}

	if err = h.entries.DeleteEntry(id, user.ID); err != nil {
		return InternalError(err, "delete entry: ")
	}

	return Ok(nil)
}

// GrantAccess lets another user search one of the caller's entries.
func (h *EntryHandler) GrantAccess(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid entry ID.")
	}

	var req models.CreateGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}
	if req.UserID == uuid.Nil {
		return BadRequest("User ID is required.")
	}
	if req.UserID == user.ID {
		return BadRequest("Cannot grant access to yourself.")
	}

	entry, err := h.entries.GetEntryByID(id, user.ID)
	if err != nil {
		return InternalError(err, "grant access: get entry")
	}
	if entry == nil {
		return NotFound("Entry not found.")
	}

	grantee, err := h.users.GetUserByID(req.UserID)
	if err != nil {
		return InternalError(err, "grant access: get user")
	}
	if grantee == nil {
		return NotFound("User not found.")
	}

	if err = h.grants.CreateGrant(data.EntryGrant{EntryID: entry.ID, UserID: grantee.ID}); err != nil {
		return InternalError(err, "grant access: ")
	}

	return Created(grantee.ID)
}

func (h *EntryHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid entry ID.")
	}
	granteeID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		return BadRequest("Invalid user ID.")
	}

	entry, err := h.entries.GetEntryByID(id, user.ID)
	if err != nil {
		return InternalError(err, "revoke access: get entry")
	}
	if entry == nil {
		return NotFound("Entry not found.")
	}

	if err = h.grants.DeleteGrant(entry.ID, granteeID); err != nil {
		return InternalError(err, "revoke access: ")
	}

	return Ok(nil)
}

func (h *EntryHandler) validateText(text string) (Result, bool) {
	if strings.TrimSpace(text) == "" {
		return BadRequest("Text is required."), false
	}
	if utf8.RuneCountInString(text) > h.maxEntryLength {
		return BadRequest("Text is too long."), false
	}
	return Result{}, true
}

func toEntryModel(e data.Entry) models.Entry {
	return models.Entry{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		Text:      e.Text,
		Language:  e.Language,
		Public:    e.Public,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
