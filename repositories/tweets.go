package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scraper.local/twitter-archive/models"
	"scraper.local/twitter-archive/normalize"
)

// ChunkSize is how many tweets are committed per transaction. It
// bounds memory on very large pulls without paying a commit per row.
const ChunkSize = 100

type TweetsRepository struct {
	Db    *gorm.DB
	Users *UsersRepository
}

func NewTweetsRepository(db *gorm.DB) *TweetsRepository {
	return &TweetsRepository{Db: db, Users: &UsersRepository{Db: db}}
}

// Save persists a batch of normalized tweet records in chunks of
// ChunkSize. When favoritedBy is non-zero each tweet also gets a
// favorited_by link row. The final partial chunk always flushes, even
// when empty, so schema setup happens for zero-record pulls too.
func (r *TweetsRepository) Save(recs []*normalize.TweetRecord, favoritedBy int64) error {
	for {
		chunk := recs
		if len(chunk) > ChunkSize {
			chunk = chunk[:ChunkSize]
		}
		recs = recs[len(chunk):]
		if err := r.flush(chunk, favoritedBy); err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
	}
}

func (r *TweetsRepository) flush(chunk []*normalize.TweetRecord, favoritedBy int64) error {
	if err := ensureTweetTables(r.Db); err != nil {
		return err
	}
	if favoritedBy != 0 {
		if err := ensureTable(r.Db, &models.FavoritedBy{}); err != nil {
			return err
		}
	}
	return r.Db.Transaction(func(tx *gorm.DB) error {
		repo := &TweetsRepository{Db: tx, Users: &UsersRepository{Db: tx}}
		for _, rec := range chunk {
			if err := repo.saveRecord(rec); err != nil {
				return err
			}
			if favoritedBy != 0 {
				err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&models.FavoritedBy{TweetsID: rec.Tweet.ID, UserID: favoritedBy}).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// saveRecord is depth-first: nested retweeted/quoted tweets are saved
// before the citing row, so the self-referencing foreign keys point at
// rows that already exist by the time the outer tweet lands.
func (r *TweetsRepository) saveRecord(rec *normalize.TweetRecord) error {
	if rec.Retweeted != nil {
		if err := r.saveRecord(rec.Retweeted); err != nil {
			return err
		}
	}
	if rec.Quoted != nil {
		if err := r.saveRecord(rec.Quoted); err != nil {
			return err
		}
	}
	if rec.Source != nil {
		err := r.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec.Source).Error
		if err != nil {
			return err
		}
	}
	if rec.Place != nil {
		err := r.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec.Place).Error
		if err != nil {
			return err
		}
	}
	if rec.Author != nil {
		if err := r.Users.Save([]*models.User{rec.Author}, 0); err != nil {
			return err
		}
	}
	err := r.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(rec.Tweet).Error
	if err != nil {
		return err
	}
	return r.saveMedia(rec)
}

func (r *TweetsRepository) saveMedia(rec *normalize.TweetRecord) error {
	if len(rec.Media) == 0 {
		return nil
	}
	if err := ensureMediaTables(r.Db); err != nil {
		return err
	}
	for _, media := range rec.Media {
		err := r.Db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(media).Error
		if err != nil {
			return err
		}
		err = r.Db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.MediaTweet{MediaID: media.ID, TweetsID: rec.Tweet.ID}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ExistingTweetIDs reports which of ids are already stored, for the
// statuses-lookup --skip-existing option.
func (r *TweetsRepository) ExistingTweetIDs(ids []int64) (map[int64]bool, error) {
	existing := map[int64]bool{}
	if !r.Db.Migrator().HasTable(&models.Tweet{}) || len(ids) == 0 {
		return existing, nil
	}
	var found []int64
	err := r.Db.Model(&models.Tweet{}).Where("id IN ?", ids).Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}
