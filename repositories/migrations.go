package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/models"
	"scraper.local/twitter-archive/normalize"
)

// MigrationStep is one named, idempotent schema-evolution step. Steps
// must tolerate stores that lack the tables they expect: not every
// store holds every optional entity, and a missing table means there
// is simply nothing to migrate.
type MigrationStep struct {
	Name string
	Run  func(db *gorm.DB) error
}

// DefaultMigrations is the ordered list applied to every opened store.
// Order is append-only; renaming or reordering entries would desync
// existing ledgers.
func DefaultMigrations() []MigrationStep {
	return []MigrationStep{
		{Name: "convert_source_column", Run: convertSourceColumn},
	}
}

type MigrationsRepository struct {
	Db *gorm.DB
}

// Apply runs every un-applied step once, in list order, recording each
// in the ledger immediately after it succeeds. A brand-new store (no
// tables at all) is left untouched: the schema manager will create
// everything current, so there is nothing to evolve.
func (r *MigrationsRepository) Apply(steps []MigrationStep) error {
	names, err := common.TableNames(r.Db)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	if err := ensureTable(r.Db, &models.Migration{}); err != nil {
		return err
	}
	for _, step := range steps {
		var existing models.Migration
		err := r.Db.Where("name = ?", step.Name).Take(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := step.Run(r.Db); err != nil {
			return err
		}
		record := &models.Migration{
			Name:    step.Name,
			Applied: nowTimestamp(),
		}
		if err := r.Db.Create(record).Error; err != nil {
			return err
		}
	}
	return nil
}

// convertSourceColumn rewrites tweets whose source column still holds
// the producer's inline HTML anchor into content-addressed sources
// rows, leaving only the hash reference behind. No-op on stores
// without a tweets table.
func convertSourceColumn(db *gorm.DB) error {
	if !db.Migrator().HasTable("tweets") {
		return nil
	}
	if err := ensureTable(db, &models.Source{}); err != nil {
		return err
	}
	type row struct {
		ID     int64
		Source string
	}
	var rows []row
	err := db.Raw(`SELECT id, source FROM tweets WHERE source LIKE '<%'`).Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, rec := range rows {
		src, err := normalize.Source(rec.Source)
		if err != nil {
			// Not an anchor after all; leave the value as-is.
			continue
		}
		err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(src).Error
		if err != nil {
			return err
		}
		err = db.Exec(`UPDATE tweets SET source = ? WHERE id = ?`, src.ID, rec.ID).Error
		if err != nil {
			return err
		}
	}
	// Opportunistic: older stores predate the source index.
	db.Exec(`CREATE INDEX IF NOT EXISTS idx_tweets_source ON tweets(source)`)
	return nil
}
