package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kova98/nearmatch.api/access"
	"github.com/kova98/nearmatch.api/models"
	"github.com/kova98/nearmatch.api/scan"
)

// bodyOverhead covers JSON keys, quoting and escapes around the entry and term.
const bodyOverhead = 1024

type SearchHandler struct {
	searcher       *scan.Searcher
	entries        EntryStore
	maxEntryLength int
	maxTermLength  int
}

func NewSearchHandler(searcher *scan.Searcher, entries EntryStore, maxEntryLength, maxTermLength int) *SearchHandler {
	return &SearchHandler{
		searcher:       searcher,
		entries:        entries,
		maxEntryLength: maxEntryLength,
		maxTermLength:  maxTermLength,
	}
}

// maxBodyBytes bounds a search request body. A character takes at most
// four bytes of UTF-8.
func (h *SearchHandler) maxBodyBytes() int64 {
	return int64(h.maxEntryLength+h.maxTermLength)*utf8.UTFMax + bodyOverhead
}

func (h *SearchHandler) termTooLong(term string) bool {
	return utf8.RuneCountInString(term) > h.maxTermLength
}

// decodeLimited decodes a JSON body of at most limit bytes into v.
func decodeLimited(w http.ResponseWriter, r *http.Request, limit int64, v any) (Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
			return PayloadTooLarge("Request is too large."), false
		}
		return BadRequest("Invalid request."), false
	}
	return Result{}, true
}

// PostSearch searches text supplied in the request body.
func (h *SearchHandler) PostSearch(w http.ResponseWriter, r *http.Request) Result {
	var req models.PostSearchRequest
	if res, ok := decodeLimited(w, r, h.maxBodyBytes(), &req); !ok {
		return res
	}

	if h.termTooLong(req.Term) {
		return BadRequest("Term is too long.")
	}
	if utf8.RuneCountInString(req.Entry) > h.maxEntryLength {
		return BadRequest("Entry is too long.")
	}

	return Ok(h.searcher.Search(req.Entry, req.Term))
}

// GetSearch searches a stored entry. Anonymous callers may search public
// entries of a given owner; signed-in callers may also search their own
// entries and entries shared with them. Anything else looks like a missing
// entry.
func (h *SearchHandler) GetSearch(w http.ResponseWriter, r *http.Request) Result {
	query := r.URL.Query()

	entryID, err := strconv.Atoi(query.Get("entryid"))
	if err != nil {
		return BadRequest("Invalid entry ID.")
	}

	if !query.Has("term") {
		return BadRequest("Term is required.")
	}
	term := query.Get("term")
	if h.termTooLong(term) {
		return BadRequest("Term is too long.")
	}

	var owner *uuid.UUID
	if raw := query.Get("ownerid"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return BadRequest("Invalid owner ID.")
		}
		owner = &id
	}

	var viewer *uuid.UUID
	viewerID := uuid.Nil
	if user, ok := UserFrom(r.Context()); ok {
		viewer = &user.ID
		viewerID = user.ID
	}

	if viewer == nil && owner == nil {
		return BadRequest("Owner ID is required for anonymous searches.")
	}

	entry, err := h.entries.GetEntryForViewer(entryID, viewerID)
	if err != nil {
		return InternalError(err, "get search: get entry")
	}
	if entry == nil {
		return NotFound("Entry not found.")
	}

	if access.CanRead(entry.Entry, viewer, owner, entry.Granted) != access.Allowed {
		return NotFound("Entry not found.")
	}

	return Ok(h.searcher.Search(entry.Text, term))
}

// SearchEntries searches every entry owned by the caller.
func (h *SearchHandler) SearchEntries(w http.ResponseWriter, r *http.Request) Result {
	user, ok := UserFrom(r.Context())
	if !ok {
		return Unauthorized("Missing authorization header")
	}

	var req models.SearchEntriesRequest
	if res, ok := decodeLimited(w, r, int64(h.maxTermLength)*utf8.UTFMax+bodyOverhead, &req); !ok {
		return res
	}
	if h.termTooLong(req.Term) {
		return BadRequest("Term is too long.")
	}

	entries, err := h.entries.GetEntriesByOwnerID(user.ID)
	if err != nil {
		return InternalError(err, "search entries: get entries")
	}

	results, err := h.searcher.SearchEntries(r.Context(), entries, req.Term)
	if err != nil {
		return InternalError(err, "search entries")
	}

	return Ok(models.SearchEntriesResponse{Results: results})
}
