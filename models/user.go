package models

type User struct {
	ID              int64  `gorm:"primaryKey"`
	ScreenName      string `gorm:"size:50;index"`
	Name            string `gorm:"size:100"`
	Location        string `gorm:"size:200"`
	Description     string `gorm:"size:500"`
	URL             string `gorm:"size:500"`
	Protected       bool
	Verified        bool
	GeoEnabled      bool
	DefaultProfile  bool
	Lang            string `gorm:"size:10"`
	TimeZone        string `gorm:"size:50"`
	ProfileImageURL string `gorm:"size:500"`
	FollowersCount  int
	FriendsCount    int
	ListedCount     int
	FavouritesCount int
	StatusesCount   int
	CreatedAt       string `gorm:"size:30"`
}

func (m *User) TableName() string {
	return "users"
}
