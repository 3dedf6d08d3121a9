package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clefbase/clefbase/composer/model"
	"github.com/clefbase/clefbase/composer/sqlmodel"
	"github.com/clefbase/clefbase/e"
)

// fakeComposerStore in-memory ComposerStore for handler tests
type fakeComposerStore struct {
	byID   map[int]*model.Composer
	nextID int
}

func newFakeStore() *fakeComposerStore {
	return &fakeComposerStore{
		byID:   map[int]*model.Composer{},
		nextID: 1,
	}
}

func (f *fakeComposerStore) add(fullName, name string) *model.Composer {
	c := &model.Composer{
		ID:       f.nextID,
		FullName: fullName,
		Name:     name,
	}
	f.byID[c.ID] = c
	f.nextID++
	return c
}

func (f *fakeComposerStore) Create(ip *sqlmodel.ComposerInsertParam) (*model.Composer, error) {
	for _, c := range f.byID {
		if c.FullName == ip.FullName || c.Name == ip.Name {
			return nil, e.N("T01", e.MsgComposerExists)
		}
	}

	c := f.add(ip.FullName, ip.Name)
	c.BirthYear = ip.BirthYear
	c.DeathYear = ip.DeathYear
	c.Nationality = ip.Nationality
	return c, nil
}

func (f *fakeComposerStore) List(skip, limit uint64) ([]*model.Composer, error) {
	var cList []*model.Composer
	for id := 1; id < f.nextID; id++ {
		if c, ok := f.byID[id]; ok {
			cList = append(cList, c)
		}
	}

	if skip >= uint64(len(cList)) {
		return nil, nil
	}
	cList = cList[skip:]
	if uint64(len(cList)) > limit {
		cList = cList[:limit]
	}

	return cList, nil
}

func (f *fakeComposerStore) Get(id int) (*model.Composer, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, e.N("T02", e.MsgComposerNotExists)
	}
	return c, nil
}

func (f *fakeComposerStore) Update(id int, up *sqlmodel.ComposerUpdateParam) (*model.Composer, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, e.N("T03", e.MsgComposerNotExists)
	}

	if up.FullName != nil {
		c.FullName = *up.FullName
	}
	if up.Name != nil {
		c.Name = *up.Name
	}
	if up.BirthYear != nil {
		c.BirthYear = up.BirthYear
	}
	if up.DeathYear != nil {
		c.DeathYear = up.DeathYear
	}
	if up.Nationality != nil {
		c.Nationality = up.Nationality
	}

	return c, nil
}

func (f *fakeComposerStore) Delete(id int) error {
	if _, ok := f.byID[id]; !ok {
		return e.N("T04", e.MsgComposerNotExists)
	}
	delete(f.byID, id)
	return nil
}

func newTestRouter(store ComposerStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(store, Config{Version: "test"})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string,
	body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateComposer(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodPost, "/api/composers/", gin.H{
		"full_name":   "Gustav Mahler",
		"name":        "Mahler",
		"birth_year":  1860,
		"death_year":  1911,
		"nationality": "Austrian",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp composerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ID)
	assert.Equal(t, "Gustav Mahler", resp.FullName)
	assert.Equal(t, "Mahler", resp.Name)
	require.NotNil(t, resp.BirthYear)
	assert.Equal(t, 1860, *resp.BirthYear)
}

func TestCreateComposerMissingFields(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodPost, "/api/composers/", gin.H{
		"name": "Mahler",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateComposerConflict(t *testing.T) {
	store := newFakeStore()
	store.add("Gustav Mahler", "Mahler")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPost, "/api/composers/", gin.H{
		"full_name": "Gustav Mahler",
		"name":      "Mahler",
	})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"detail":"Composer already exists"}`, w.Body.String())
}

func TestListComposers(t *testing.T) {
	store := newFakeStore()
	store.add("Johann Sebastian Bach", "J.S. Bach")
	store.add("Antonio Vivaldi", "Vivaldi")
	store.add("George Frideric Handel", "Handel")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodGet, "/api/composers/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []composerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	assert.Equal(t, "J.S. Bach", resp[0].Name)

	w = doJSON(t, r, http.MethodGet, "/api/composers/?skip=1&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Vivaldi", resp[0].Name)
}

func TestListComposersLimitZero(t *testing.T) {
	store := newFakeStore()
	store.add("Johann Sebastian Bach", "J.S. Bach")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodGet, "/api/composers/?limit=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListComposersEmpty(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/api/composers/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetComposer(t *testing.T) {
	store := newFakeStore()
	c := store.add("Gustav Mahler", "Mahler")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodGet, "/api/composers/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp composerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, c.ID, resp.ID)
	assert.Equal(t, "Gustav Mahler", resp.FullName)
}

func TestGetComposerNotFound(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/api/composers/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Composer not found"}`, w.Body.String())
}

func TestGetComposerBadID(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/api/composers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateComposer(t *testing.T) {
	store := newFakeStore()
	store.add("Gustav Mahler", "Mahler")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPut, "/api/composers/1", gin.H{
		"nationality": "Austrian",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp composerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Gustav Mahler", resp.FullName)
	require.NotNil(t, resp.Nationality)
	assert.Equal(t, "Austrian", *resp.Nationality)
}

func TestUpdateComposerNoFields(t *testing.T) {
	store := newFakeStore()
	store.add("Gustav Mahler", "Mahler")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPut, "/api/composers/1", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "At least one field")
}

func TestUpdateComposerNotFound(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodPut, "/api/composers/42", gin.H{
		"name": "Mahler",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Composer not found"}`, w.Body.String())
}

func TestDeleteComposer(t *testing.T) {
	store := newFakeStore()
	store.add("Gustav Mahler", "Mahler")
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodDelete, "/api/composers/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/composers/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRootAndHealth(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Classical Album Management API")

	w = doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestOpenAPIServed(t *testing.T) {
	r := newTestRouter(newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc, "paths")
}
