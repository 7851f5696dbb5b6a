package handlers

import (
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kova98/nearmatch.api/data"
	"github.com/kova98/nearmatch.api/scan"
)

// memStore is an in-memory UserStore, EntryStore and GrantStore.
type memStore struct {
	users   map[uuid.UUID]data.User
	entries map[int]data.Entry
	grants  []data.EntryGrant
	nextID  int
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uuid.UUID]data.User),
		entries: make(map[int]data.Entry),
		nextID:  1,
	}
}

func (s *memStore) addUser(name string) data.User {
	u := data.User{ID: uuid.New(), Name: name, Email: name + "@example.com"}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addEntry(owner uuid.UUID, text string, public bool) data.Entry {
	id, _ := s.CreateEntry(data.Entry{OwnerID: owner, Text: text, Public: public})
	return s.entries[id]
}

func (s *memStore) InsertUser(user data.User) (uuid.UUID, error) {
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *memStore) GetUserByID(id uuid.UUID) (*data.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *memStore) GetUsersByIDs(ids []uuid.UUID) ([]data.User, error) {
	users := []data.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *memStore) CreateEntry(entry data.Entry) (int, error) {
	entry.ID = s.nextID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	s.entries[entry.ID] = entry
	s.nextID++
	return entry.ID, nil
}

func (s *memStore) GetEntriesByOwnerID(ownerID uuid.UUID) ([]data.Entry, error) {
	var entries []data.Entry
	for _, e := range s.entries {
		if e.OwnerID == ownerID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *memStore) GetEntryByID(id int, ownerID uuid.UUID) (*data.Entry, error) {
	e, ok := s.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, nil
	}
	return &e, nil
}

func (s *memStore) GetEntryForViewer(id int, viewerID uuid.UUID) (*data.EntryAccess, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	access := data.EntryAccess{Entry: e}
	for _, g := range s.grants {
		if g.EntryID == id && g.UserID == viewerID {
			access.Granted = true
		}
	}
	return &access, nil
}

func (s *memStore) UpdateEntry(entry data.Entry) (bool, error) {
	existing, ok := s.entries[entry.ID]
	if !ok || existing.OwnerID != entry.OwnerID {
		return false, nil
	}
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = time.Now()
	s.entries[entry.ID] = entry
	return true, nil
}

func (s *memStore) DeleteEntry(id int, ownerID uuid.UUID) error {
	if e, ok := s.entries[id]; ok && e.OwnerID == ownerID {
		delete(s.entries, id)
	}
	return nil
}

func (s *memStore) CreateGrant(grant data.EntryGrant) error {
	for _, g := range s.grants {
		if g.EntryID == grant.EntryID && g.UserID == grant.UserID {
			return nil
		}
	}
	grant.CreatedAt = time.Now()
	s.grants = append(s.grants, grant)
	return nil
}

func (s *memStore) GetGrantsByEntryIDs(entryIDs []int) ([]data.EntryGrant, error) {
	grants := []data.EntryGrant{}
	for _, g := range s.grants {
		for _, id := range entryIDs {
			if g.EntryID == id {
				grants = append(grants, g)
			}
		}
	}
	return grants, nil
}

func (s *memStore) DeleteGrant(entryID int, userID uuid.UUID) error {
	kept := s.grants[:0]
	for _, g := range s.grants {
		if g.EntryID != entryID || g.UserID != userID {
			kept = append(kept, g)
		}
	}
	s.grants = kept
	return nil
}

type fixedDetector string

func (d fixedDetector) Detect(string) string {
	return string(d)
}

func newTestSearcher(t *testing.T) *scan.Searcher {
	t.Helper()
	s, err := scan.NewSearcher(2, nil)
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

type testRequest struct {
	method     string
	target     string
	body       string
	user       *data.User
	pathValues map[string]string
}

func call(h Handler, tr testRequest) Result {
	r := httptest.NewRequest(tr.method, tr.target, strings.NewReader(tr.body))
	if tr.user != nil {
		r = r.WithContext(WithUser(r.Context(), *tr.user))
	}
	for k, v := range tr.pathValues {
		r.SetPathValue(k, v)
	}
	return h(httptest.NewRecorder(), r)
}
