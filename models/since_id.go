package models

// Feed types for since-markers. Fixed identifiers: they are stored in
// rows, so the mapping must never be renumbered.
const (
	FeedUserTimeline     = 1
	FeedHomeTimeline     = 2
	FeedMentionsTimeline = 3
	FeedSearch           = 4
	FeedFavorites        = 5
)

type SinceIDType struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"size:50;uniqueIndex"`
}

func (m *SinceIDType) TableName() string {
	return "since_id_types"
}

// SinceID is the highest record identifier already ingested for one
// feed, keyed by (type, key) — e.g. (user_timeline, "12497").
type SinceID struct {
	Type    int    `gorm:"primaryKey;column:type"`
	Key     string `gorm:"primaryKey;size:200"`
	SinceID int64  `gorm:"column:since_id"`
}

func (m *SinceID) TableName() string {
	return "since_ids"
}
