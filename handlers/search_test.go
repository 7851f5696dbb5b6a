package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/nearmatch.api/data"
	"github.com/kova98/nearmatch.api/matchers"
	"github.com/kova98/nearmatch.api/models"
)

func newTestSearchHandler(t *testing.T, store *memStore) *SearchHandler {
	return NewSearchHandler(newTestSearcher(t), store, 1000, 50)
}

func TestPostSearch(t *testing.T) {
	h := newTestSearchHandler(t, newMemStore())

	res := call(h.PostSearch, testRequest{
		method: http.MethodPost,
		target: "/search",
		body:   `{"term":"cat","entry":"the cats sat with a cat"}`,
	})

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.(matchers.Result)
	assert.Equal(t, "cat", body.Term)
	assert.Equal(t, 1, body.Frequency)
	assert.Equal(t, map[string]int{"cats": 1, "sat": 1}, body.SimilarHits)
	assert.True(t, body.EnforceWordStartBoundary)
	assert.True(t, body.EnforceWordEndBoundary)
}

func TestPostSearch_EmptyFields(t *testing.T) {
	h := newTestSearchHandler(t, newMemStore())

	res := call(h.PostSearch, testRequest{method: http.MethodPost, target: "/search", body: `{}`})

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.(matchers.Result)
	assert.Equal(t, 0, body.Frequency)
	assert.Empty(t, body.SimilarHits)
}

func TestPostSearch_InvalidBody(t *testing.T) {
	h := newTestSearchHandler(t, newMemStore())

	res := call(h.PostSearch, testRequest{method: http.MethodPost, target: "/search", body: `{"term":`})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestPostSearch_EntryTooLong(t *testing.T) {
	h := newTestSearchHandler(t, newMemStore())

	body := fmt.Sprintf(`{"term":"cat","entry":%q}`, strings.Repeat("a", 1001))
	res := call(h.PostSearch, testRequest{method: http.MethodPost, target: "/search", body: body})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestPostSearch_TermTooLong(t *testing.T) {
	h := newTestSearchHandler(t, newMemStore())

	body := fmt.Sprintf(`{"term":%q,"entry":"a cat"}`, strings.Repeat("c", 51))
	res := call(h.PostSearch, testRequest{method: http.MethodPost, target: "/search", body: body})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, ErrorResponse{"Term is too long."}, res.Body)

	body = fmt.Sprintf(`{"term":%q,"entry":"a cat"}`, strings.Repeat("ć", 50))
	res = call(h.PostSearch, testRequest{method: http.MethodPost, target: "/search", body: body})
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestPostSearch_BodyTooLarge(t *testing.T) {
	h := newTestSearchHandler(t, newMemStore())

	body := fmt.Sprintf(`{"term":"cat","entry":%q}`, strings.Repeat("a", 10_000))
	res := call(h.PostSearch, testRequest{method: http.MethodPost, target: "/search", body: body})
	require.Equal(t, http.StatusRequestEntityTooLarge, res.Code)
	assert.Equal(t, ErrorResponse{"Request is too large."}, res.Body)
}

func searchURL(entryID int, term string, owner *uuid.UUID) string {
	url := fmt.Sprintf("/search?entryid=%d&term=%s", entryID, term)
	if owner != nil {
		url += "&ownerid=" + owner.String()
	}
	return url
}

func TestGetSearch_AccessRules(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	carol := store.addUser("carol")

	private := store.addEntry(alice.ID, "my cat sleeps", false)
	public := store.addEntry(alice.ID, "my cat sleeps", true)
	require.NoError(t, store.CreateGrant(data.EntryGrant{EntryID: private.ID, UserID: bob.ID}))

	h := newTestSearchHandler(t, store)

	tests := []struct {
		name   string
		entry  int
		owner  *uuid.UUID
		viewer *data.User
		code   int
	}{
		{"anonymous without owner", public.ID, nil, nil, http.StatusBadRequest},
		{"anonymous public", public.ID, &alice.ID, nil, http.StatusOK},
		{"anonymous private", private.ID, &alice.ID, nil, http.StatusNotFound},
		{"anonymous wrong owner", public.ID, &bob.ID, nil, http.StatusNotFound},
		{"owner implicit", private.ID, nil, &alice, http.StatusOK},
		{"owner explicit", private.ID, &alice.ID, &alice, http.StatusOK},
		{"granted user", private.ID, &alice.ID, &bob, http.StatusOK},
		{"ungranted user", private.ID, &alice.ID, &carol, http.StatusNotFound},
		{"ungranted user public", public.ID, &alice.ID, &carol, http.StatusOK},
		{"missing entry", 999, &alice.ID, &alice, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := call(h.GetSearch, testRequest{
				method: http.MethodGet,
				target: searchURL(tc.entry, "cat", tc.owner),
				user:   tc.viewer,
			})
			require.Equal(t, tc.code, res.Code)
			if tc.code == http.StatusOK {
				body := res.Body.(matchers.Result)
				assert.Equal(t, 1, body.Frequency)
				assert.Empty(t, body.SimilarHits)
			}
		})
	}
}

func TestGetSearch_InvalidQuery(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	h := newTestSearchHandler(t, store)

	for _, target := range []string{
		"/search?term=cat",
		"/search?entryid=abc&term=cat",
		"/search?entryid=1",
		"/search?entryid=1&term=cat&ownerid=nope",
		"/search?entryid=1&term=" + strings.Repeat("c", 51),
	} {
		res := call(h.GetSearch, testRequest{method: http.MethodGet, target: target, user: &alice})
		assert.Equal(t, http.StatusBadRequest, res.Code, target)
	}
}

func TestSearchEntries_OnlyOwnEntries(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	first := store.addEntry(alice.ID, "a cat", false)
	store.addEntry(bob.ID, "a cat", true)
	second := store.addEntry(alice.ID, "two cats", false)

	h := newTestSearchHandler(t, store)

	res := call(h.SearchEntries, testRequest{
		method: http.MethodPost,
		target: "/entries/search",
		body:   `{"term":"cat"}`,
		user:   &alice,
	})

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.(models.SearchEntriesResponse)
	require.Len(t, body.Results, 2)
	assert.Equal(t, first.ID, body.Results[0].EntryID)
	assert.Equal(t, 1, body.Results[0].Frequency)
	assert.Equal(t, second.ID, body.Results[1].EntryID)
	assert.Equal(t, map[string]int{"cats": 1}, body.Results[1].SimilarHits)
}

func TestSearchEntries_TermTooLong(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	store.addEntry(alice.ID, "a cat", false)
	h := newTestSearchHandler(t, store)

	res := call(h.SearchEntries, testRequest{
		method: http.MethodPost,
		target: "/entries/search",
		body:   fmt.Sprintf(`{"term":%q}`, strings.Repeat("c", 51)),
		user:   &alice,
	})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, ErrorResponse{"Term is too long."}, res.Body)
}

func TestSearchEntries_Unauthenticated(t *testing.T) {
	h := newTestSearchHandler(t, newMemStore())

	res := call(h.SearchEntries, testRequest{method: http.MethodPost, target: "/entries/search", body: `{"term":"cat"}`})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
