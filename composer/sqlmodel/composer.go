package sqlmodel

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/clefbase/clefbase/composer/model"
	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/sql"
)

const (
	ComposerTableName     = "composer"
	ComposerDefaultSortBy = "composer_id"

	ECode030201 = e.Code0302 + "01"
	ECode030202 = e.Code0302 + "02"
	ECode030203 = e.Code0302 + "03"
	ECode030204 = e.Code0302 + "04"
	ECode030206 = e.Code0302 + "06"
	ECode030207 = e.Code0302 + "07"
	ECode030208 = e.Code0302 + "08"
	ECode030209 = e.Code0302 + "09"
	ECode03020A = e.Code0302 + "0A"
	ECode03020B = e.Code0302 + "0B"
)

// ComposerGetParam get params. Limit is used as given; zero selects no
// rows.
type ComposerGetParam struct {
	Limit     uint64
	Offset    uint64
	ID        *int
	FullName  *string
	Name      *string
	FlagCount bool
	OrderByID string
}

// ComposerInsertParam insert params
type ComposerInsertParam struct {
	FullName    string
	Name        string
	BirthYear   *int
	DeathYear   *int
	Nationality *string
}

// ComposerUpdateParam update params; nil fields are left unchanged
type ComposerUpdateParam struct {
	FullName    *string
	Name        *string
	BirthYear   *int
	DeathYear   *int
	Nationality *string
}

// ComposerInsert performs insert, returning the new id
func ComposerInsert(db *sql.Connection, ip *ComposerInsertParam) (id int, err error) {
	ib := db.Insert(ComposerTableName).
		Columns(`composer_full_name,composer_name,
		composer_birth_year,composer_death_year,composer_nationality`).
		Values(ip.FullName, ip.Name,
			ip.BirthYear, ip.DeathYear, ip.Nationality,
		).Suffix("RETURNING composer_id")

	id, err = db.ExecInsertReturningID(ib)
	if err != nil {
		if e.IsPQError(err, e.PQErr23505UniqueViolation) {
			return 0, e.N(ECode030201, e.MsgComposerExists)
		}
		return 0, e.W(err, ECode030202,
			fmt.Sprintf("params: %s, %s", ip.FullName, ip.Name))
	}

	return id, nil
}

// ComposerUpdate performs update
func ComposerUpdate(db *sql.Connection, id int, up *ComposerUpdateParam) (err error) {
	if up == nil {
		return nil // Nothing to update
	}

	ub := db.Update(ComposerTableName).
		Set("updated_on", sq.Expr("now()")).
		Where("composer_id=?", id)

	if up.FullName != nil {
		ub = ub.Set("composer_full_name", *up.FullName)
	}

	if up.Name != nil {
		ub = ub.Set("composer_name", *up.Name)
	}

	if up.BirthYear != nil {
		ub = ub.Set("composer_birth_year", *up.BirthYear)
	}

	if up.DeathYear != nil {
		ub = ub.Set("composer_death_year", *up.DeathYear)
	}

	if up.Nationality != nil {
		ub = ub.Set("composer_nationality", *up.Nationality)
	}

	err = db.ExecUpdate(ub)
	if err != nil {
		if e.IsPQError(err, e.PQErr23505UniqueViolation) {
			return e.N(ECode030203, e.MsgComposerExists)
		}
		return e.W(err, ECode030204, fmt.Sprintf("id: %d", id))
	}

	return nil
}

// ComposerGet performs select
func ComposerGet(db *sql.Connection,
	p *ComposerGetParam) (cList []*model.Composer, count int, err error) {
	fields := `composer_id,composer_full_name,composer_name,
	composer_birth_year,composer_death_year,composer_nationality,
	created_on,updated_on`

	sb := db.Select(sql.FieldPlaceHolder).
		From(ComposerTableName).
		Limit(p.Limit)

	if p.ID != nil && *p.ID >= 0 {
		sb = sb.Where("composer_id=?", *p.ID)
	}

	if p.FullName != nil {
		sb = sb.Where("composer_full_name=?", *p.FullName)
	}

	if p.Name != nil {
		sb = sb.Where("composer_name=?", *p.Name)
	}

	if p.FlagCount {
		count, err = db.QueryCount(sb)
		if err != nil {
			return nil, 0, e.W(err, ECode030206)
		}
	}

	sb = sb.Offset(p.Offset)

	if p.OrderByID != "" {
		sb = sb.OrderBy(fmt.Sprintf("composer_id %s", p.OrderByID))
	}

	stmt, bindList, err := sb.ToSql()
	if err != nil {
		return nil, 0, e.W(err, ECode030207)
	}
	stmt = strings.Replace(stmt, sql.FieldPlaceHolder, fields, 1)

	rows, err := db.Query(stmt, bindList...)
	if err != nil {
		return nil, 0, e.W(err, ECode030208,
			fmt.Sprintf("bindList: %v", bindList))
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Composer{}
		if err := rows.Scan(&c.ID, &c.FullName, &c.Name,
			&c.BirthYear, &c.DeathYear, &c.Nationality,
			&c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, 0, e.W(err, ECode030209,
				fmt.Sprintf("stmt: %s | bindList: %v", stmt, bindList))
		}

		cList = append(cList, c)
	}

	return cList, count, nil
}

// ComposerGetByID returns the composer by id
func ComposerGetByID(db *sql.Connection, id int) (c *model.Composer, err error) {
	cList, _, err := ComposerGet(db, &ComposerGetParam{
		Limit: 1,
		ID:    &id,
	})
	if err != nil {
		return nil, e.W(err, ECode03020A)
	}

	if len(cList) != 1 {
		return nil, e.N(ECode03020A, e.MsgComposerNotExists)
	}

	return cList[0], nil
}

// ComposerDelete performs delete
func ComposerDelete(db *sql.Connection, id int) (err error) {
	delB := db.Delete(ComposerTableName).
		Where("composer_id=?", id)

	if err := db.ExecDelete(delB); err != nil {
		return e.W(err, ECode03020B, fmt.Sprintf("id: %d", id))
	}

	return nil
}
