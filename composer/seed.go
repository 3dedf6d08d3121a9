package composer

import (
	"github.com/clefbase/clefbase/composer/sqlmodel"
	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/sql"
	"github.com/rs/zerolog/log"
)

const (
	ECode030301 = e.Code0303 + "01"
	ECode030302 = e.Code0303 + "02"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// seedComposers the initial data set, loaded only into an empty table
var seedComposers = []sqlmodel.ComposerInsertParam{
	{FullName: "Johann Sebastian Bach", Name: "J.S. Bach", BirthYear: intPtr(1685), DeathYear: intPtr(1750), Nationality: strPtr("German")},
	{FullName: "Antonio Vivaldi", Name: "Vivaldi", BirthYear: intPtr(1678), DeathYear: intPtr(1741), Nationality: strPtr("Italian")},
	{FullName: "George Frideric Handel", Name: "Handel", BirthYear: intPtr(1685), DeathYear: intPtr(1759), Nationality: strPtr("German-British")},
	{FullName: "Ludwig van Beethoven", Name: "Beethoven", BirthYear: intPtr(1770), DeathYear: intPtr(1827), Nationality: strPtr("German")},
	{FullName: "Wolfgang Amadeus Mozart", Name: "Mozart", BirthYear: intPtr(1756), DeathYear: intPtr(1791), Nationality: strPtr("Austrian")},
	{FullName: "Franz Schubert", Name: "Schubert", BirthYear: intPtr(1797), DeathYear: intPtr(1828), Nationality: strPtr("Austrian")},
	{FullName: "Frédéric Chopin", Name: "Chopin", BirthYear: intPtr(1810), DeathYear: intPtr(1849), Nationality: strPtr("Polish-French")},
	{FullName: "Johannes Brahms", Name: "Brahms", BirthYear: intPtr(1833), DeathYear: intPtr(1897), Nationality: strPtr("German")},
	{FullName: "Felix Mendelssohn", Name: "Mendelssohn", BirthYear: intPtr(1809), DeathYear: intPtr(1847), Nationality: strPtr("German")},
	{FullName: "Pyotr Ilyich Tchaikovsky", Name: "Tchaikovsky", BirthYear: intPtr(1840), DeathYear: intPtr(1893), Nationality: strPtr("Russian")},
	{FullName: "Sergei Rachmaninoff", Name: "Rachmaninoff", BirthYear: intPtr(1873), DeathYear: intPtr(1943), Nationality: strPtr("Russian")},
}

// Seed populates the composer table with the initial data set. It is a
// no-op when the table already has rows.
func Seed(db *sql.Connection) (err error) {
	_, count, err := sqlmodel.ComposerGet(db, &sqlmodel.ComposerGetParam{
		Limit:     1,
		FlagCount: true,
	})
	if err != nil {
		return e.W(err, ECode030301)
	}

	if count > 0 {
		log.Info().Msgf("composer table already has %d rows, skipping seed", count)
		return nil
	}

	for i := range seedComposers {
		if _, err := sqlmodel.ComposerInsert(db, &seedComposers[i]); err != nil {
			return e.W(err, ECode030302, seedComposers[i].FullName)
		}
	}

	log.Info().Msgf("seeded %d composers", len(seedComposers))

	return nil
}
