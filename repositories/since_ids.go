package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scraper.local/twitter-archive/models"
)

// SinceIDsRepository is the single source of truth for resumable feed
// positions. Nothing else in the tool derives resume points from the
// entity tables.
type SinceIDsRepository struct {
	Db *gorm.DB
}

// Get returns the persisted marker for a feed, or zero when the feed
// has never completed a page.
func (r *SinceIDsRepository) Get(feedType int, key string) (int64, error) {
	if err := ensureSinceIDTables(r.Db); err != nil {
		return 0, err
	}
	var row models.SinceID
	err := r.Db.Where("type = ? AND key = ?", feedType, key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.SinceID, nil
}

// Record advances the marker to id if id is higher. Monotonic: a page
// processed out of order can never regress the marker.
func (r *SinceIDsRepository) Record(feedType int, key string, id int64) error {
	if err := ensureSinceIDTables(r.Db); err != nil {
		return err
	}
	current, err := r.Get(feedType, key)
	if err != nil {
		return err
	}
	if id <= current {
		return nil
	}
	return r.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"since_id": id}),
	}).Create(&models.SinceID{Type: feedType, Key: key, SinceID: id}).Error
}
