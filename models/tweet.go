package models

type Tweet struct {
	ID                  int64   `gorm:"primaryKey"`
	User                int64   `gorm:"column:user;index"`
	CreatedAt           string  `gorm:"size:30;index"`
	FullText            string  `gorm:"size:5000"`
	RetweetedStatus     *int64  `gorm:"column:retweeted_status"`
	QuotedStatus        *int64  `gorm:"column:quoted_status"`
	Place               *string `gorm:"size:20"`
	Source              *string `gorm:"size:40;index"`
	Truncated           bool
	DisplayTextRange    string  `gorm:"size:20"`
	InReplyToStatusID   *int64
	InReplyToUserID     *int64
	InReplyToScreenName *string `gorm:"size:50"`
	IsQuoteStatus       bool
	RetweetCount        int
	FavoriteCount       int
	Favorited           bool
	Retweeted           bool
	PossiblySensitive   bool
	Lang                string  `gorm:"size:10"`
}

func (m *Tweet) TableName() string {
	return "tweets"
}

// FavoritedBy links a tweet to a user who favorited it.
type FavoritedBy struct {
	TweetsID int64 `gorm:"primaryKey"`
	UserID   int64 `gorm:"primaryKey"`
}

func (m *FavoritedBy) TableName() string {
	return "favorited_by"
}
