package model

import "time"

// Composer one row of the composer table. FullName is the full name in
// English ("Johann Sebastian Bach"); Name is the short name the frontend
// displays ("J.S. Bach"). Optional columns are pointers so a nil means
// unknown rather than zero.
type Composer struct {
	ID          int
	FullName    string
	Name        string
	BirthYear   *int
	DeathYear   *int
	Nationality *string
	CreatedOn   time.Time
	UpdatedOn   time.Time
}
