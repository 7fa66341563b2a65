package models

// Following is an observed follow edge. first_seen is historical fact:
// the row is insert-if-absent, never replaced.
type Following struct {
	FollowedID int64  `gorm:"primaryKey"`
	FollowerID int64  `gorm:"primaryKey"`
	FirstSeen  string `gorm:"size:30"`
}

func (m *Following) TableName() string {
	return "following"
}
