package models

// Tracked user counters. Fixed identifiers, same rule as feed types.
const (
	CountFollowers  = 1
	CountFriends    = 2
	CountListed     = 3
	CountFavourites = 4
	CountStatuses   = 5
)

type CountHistoryType struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"size:50;uniqueIndex"`
}

func (m *CountHistoryType) TableName() string {
	return "count_history_types"
}

// CountHistory is a change log, not a sampled time series: a row is
// appended only when the counter differs from the previous observation
// for the same (type, user).
type CountHistory struct {
	Type     int    `gorm:"primaryKey;column:type"`
	User     int64  `gorm:"primaryKey;column:user"`
	Datetime string `gorm:"primaryKey;size:30"`
	Count    int
}

func (m *CountHistory) TableName() string {
	return "count_history"
}
