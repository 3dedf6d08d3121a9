package composer

import (
	"github.com/clefbase/clefbase/composer/model"
	"github.com/clefbase/clefbase/composer/sqlmodel"
	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/sql"
)

const (
	ECode030401 = e.Code0304 + "01"
	ECode030402 = e.Code0304 + "02"
	ECode030403 = e.Code0304 + "03"
	ECode030404 = e.Code0304 + "04"
	ECode030405 = e.Code0304 + "05"
)

// Store composer data access over one connection, in the shape the HTTP
// handlers consume
type Store struct {
	db *sql.Connection
}

// NewStore initializes a new store
func NewStore(db *sql.Connection) (s *Store) {
	return &Store{db: db}
}

// Create inserts the composer and returns the created row
func (s *Store) Create(ip *sqlmodel.ComposerInsertParam) (c *model.Composer, err error) {
	id, err := sqlmodel.ComposerInsert(s.db, ip)
	if err != nil {
		return nil, e.W(err, ECode030401)
	}

	c, err = sqlmodel.ComposerGetByID(s.db, id)
	if err != nil {
		return nil, e.W(err, ECode030401)
	}

	return c, nil
}

// List returns composers with pagination
func (s *Store) List(skip, limit uint64) (cList []*model.Composer, err error) {
	cList, _, err = sqlmodel.ComposerGet(s.db, &sqlmodel.ComposerGetParam{
		Limit:     limit,
		Offset:    skip,
		OrderByID: "asc",
	})
	if err != nil {
		return nil, e.W(err, ECode030402)
	}

	return cList, nil
}

// Get returns the composer by id
func (s *Store) Get(id int) (c *model.Composer, err error) {
	c, err = sqlmodel.ComposerGetByID(s.db, id)
	if err != nil {
		return nil, e.W(err, ECode030403)
	}

	return c, nil
}

// Update applies the partial update and returns the updated row
func (s *Store) Update(id int, up *sqlmodel.ComposerUpdateParam) (c *model.Composer, err error) {
	// Updating a missing row succeeds with zero rows affected, so check
	// existence first to keep the not-found signal
	if _, err := sqlmodel.ComposerGetByID(s.db, id); err != nil {
		return nil, e.W(err, ECode030404)
	}

	if err := sqlmodel.ComposerUpdate(s.db, id, up); err != nil {
		return nil, e.W(err, ECode030404)
	}

	c, err = sqlmodel.ComposerGetByID(s.db, id)
	if err != nil {
		return nil, e.W(err, ECode030404)
	}

	return c, nil
}

// Delete removes the composer by id
func (s *Store) Delete(id int) (err error) {
	if _, err := sqlmodel.ComposerGetByID(s.db, id); err != nil {
		return e.W(err, ECode030405)
	}

	if err := sqlmodel.ComposerDelete(s.db, id); err != nil {
		return e.W(err, ECode030405)
	}

	return nil
}
