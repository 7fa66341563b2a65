package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scraper.local/twitter-archive/models"
)

// timestampLayout is fixed width, so lexical order on the stored
// strings matches chronological order even within one second.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func nowTimestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

type UsersRepository struct {
	Db *gorm.DB
}

// Save upserts a batch of users. When followedID is non-zero a
// following edge (followedID <- each user) is recorded as well.
// Re-saving an identical batch changes nothing observable except that
// first_seen on edges keeps its original value and count_history gains
// no rows.
func (r *UsersRepository) Save(users []*models.User, followedID int64) error {
	if err := ensureUserTables(r.Db); err != nil {
		return err
	}
	if err := ensureCountHistoryTables(r.Db); err != nil {
		return err
	}
	firstSeen := nowTimestamp()
	for _, user := range users {
		if err := r.upsert(user); err != nil {
			return err
		}
		if followedID != 0 {
			if err := r.SaveFollowingEdge(followedID, user.ID, firstSeen); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *UsersRepository) upsert(user *models.User) error {
	err := r.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(user).Error
	if err != nil {
		return err
	}
	return r.recordCounts(user)
}

// SaveFollowingEdge inserts a follow edge if absent. The insert is
// ignore-on-conflict: first_seen is historical fact and an existing
// edge must keep the timestamp of its first observation.
func (r *UsersRepository) SaveFollowingEdge(followedID, followerID int64, firstSeen string) error {
	if firstSeen == "" {
		firstSeen = nowTimestamp()
	}
	return r.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Following{
		FollowedID: followedID,
		FollowerID: followerID,
		FirstSeen:  firstSeen,
	}).Error
}

// recordCounts appends a count_history row per tracked counter, but
// only when the value differs from the latest stored observation for
// that (metric, user). Saving the same profile repeatedly grows
// nothing.
func (r *UsersRepository) recordCounts(user *models.User) error {
	now := nowTimestamp()
	counts := map[int]int{
		models.CountFollowers:  user.FollowersCount,
		models.CountFriends:    user.FriendsCount,
		models.CountListed:     user.ListedCount,
		models.CountFavourites: user.FavouritesCount,
		models.CountStatuses:   user.StatusesCount,
	}
	for metric, value := range counts {
		var last models.CountHistory
		err := r.Db.Where("type = ? AND user = ?", metric, user.ID).
			Order("datetime DESC").
			Take(&last).Error
		switch {
		case err == nil && last.Count == value:
			continue
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		row := &models.CountHistory{
			Type:     metric,
			User:     user.ID,
			Datetime: now,
			Count:    value,
		}
		if err := r.Db.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

// ScreenNameToID resolves a stored screen name to its user id.
func (r *UsersRepository) ScreenNameToID(screenName string) (int64, error) {
	var user models.User
	err := r.Db.Where("screen_name = ?", screenName).Take(&user).Error
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}
