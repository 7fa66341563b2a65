package models

import (
	"gorm.io/datatypes"
)

type Media struct {
	ID            int64  `gorm:"primaryKey"`
	Indices       string `gorm:"size:20"`
	MediaURL      string `gorm:"size:500"`
	MediaURLHTTPS string `gorm:"size:500"`
	URL           string `gorm:"size:200"`
	DisplayURL    string `gorm:"size:200"`
	ExpandedURL   string `gorm:"size:500"`
	Type          string `gorm:"size:20"`
	Sizes         datatypes.JSON
}

func (m *Media) TableName() string {
	return "media"
}

// MediaTweet links a media row to every tweet that carries it. The
// composite key makes re-saving a tweet a no-op for its associations.
type MediaTweet struct {
	MediaID  int64 `gorm:"primaryKey"`
	TweetsID int64 `gorm:"primaryKey"`
}

func (m *MediaTweet) TableName() string {
	return "media_tweets"
}
