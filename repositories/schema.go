package repositories

import (
	"gorm.io/gorm"

	"scraper.local/twitter-archive/models"
)

// Schema management is lazy: each save path ensures only the tables it
// touches, because some feeds (media, places) never occur for some
// accounts. Every ensure function converges — calling it against an
// up-to-date store is a no-op, and calling it against an older store
// adds whatever columns the current models carry that the table lacks.

const usersDDL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	screen_name TEXT,
	name TEXT,
	location TEXT,
	description TEXT,
	url TEXT,
	protected BOOLEAN,
	verified BOOLEAN,
	geo_enabled BOOLEAN,
	default_profile BOOLEAN,
	lang TEXT,
	time_zone TEXT,
	profile_image_url TEXT,
	followers_count INTEGER,
	friends_count INTEGER,
	listed_count INTEGER,
	favourites_count INTEGER,
	statuses_count INTEGER,
	created_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_users_screen_name ON users(screen_name);
`

// The FTS shadow structures are kept current by triggers so the save
// paths never have to maintain the index themselves. The upsert's
// conflict-update path fires the AFTER UPDATE trigger.
const usersFTSDDL = `
CREATE VIRTUAL TABLE IF NOT EXISTS users_fts USING fts5(
	name, screen_name, description, location,
	content='users', content_rowid='id'
);
CREATE TRIGGER IF NOT EXISTS users_ai AFTER INSERT ON users BEGIN
	INSERT INTO users_fts(rowid, name, screen_name, description, location)
	VALUES (new.id, new.name, new.screen_name, new.description, new.location);
END;
CREATE TRIGGER IF NOT EXISTS users_ad AFTER DELETE ON users BEGIN
	INSERT INTO users_fts(users_fts, rowid, name, screen_name, description, location)
	VALUES ('delete', old.id, old.name, old.screen_name, old.description, old.location);
END;
CREATE TRIGGER IF NOT EXISTS users_au AFTER UPDATE ON users BEGIN
	INSERT INTO users_fts(users_fts, rowid, name, screen_name, description, location)
	VALUES ('delete', old.id, old.name, old.screen_name, old.description, old.location);
	INSERT INTO users_fts(rowid, name, screen_name, description, location)
	VALUES (new.id, new.name, new.screen_name, new.description, new.location);
END;
`

const tweetsDDL = `
CREATE TABLE IF NOT EXISTS tweets (
	id INTEGER PRIMARY KEY,
	user INTEGER REFERENCES users(id),
	created_at TEXT,
	full_text TEXT,
	retweeted_status INTEGER REFERENCES tweets(id),
	quoted_status INTEGER REFERENCES tweets(id),
	place TEXT REFERENCES places(id),
	source TEXT REFERENCES sources(id),
	truncated BOOLEAN,
	display_text_range TEXT,
	in_reply_to_status_id INTEGER,
	in_reply_to_user_id INTEGER,
	in_reply_to_screen_name TEXT,
	is_quote_status BOOLEAN,
	retweet_count INTEGER,
	favorite_count INTEGER,
	favorited BOOLEAN,
	retweeted BOOLEAN,
	possibly_sensitive BOOLEAN,
	lang TEXT
);
CREATE INDEX IF NOT EXISTS idx_tweets_user ON tweets(user);
CREATE INDEX IF NOT EXISTS idx_tweets_created_at ON tweets(created_at);
CREATE INDEX IF NOT EXISTS idx_tweets_source ON tweets(source);
`

const tweetsFTSDDL = `
CREATE VIRTUAL TABLE IF NOT EXISTS tweets_fts USING fts5(
	full_text, content='tweets', content_rowid='id'
);
CREATE TRIGGER IF NOT EXISTS tweets_ai AFTER INSERT ON tweets BEGIN
	INSERT INTO tweets_fts(rowid, full_text) VALUES (new.id, new.full_text);
END;
CREATE TRIGGER IF NOT EXISTS tweets_ad AFTER DELETE ON tweets BEGIN
	INSERT INTO tweets_fts(tweets_fts, rowid, full_text)
	VALUES ('delete', old.id, old.full_text);
END;
CREATE TRIGGER IF NOT EXISTS tweets_au AFTER UPDATE ON tweets BEGIN
	INSERT INTO tweets_fts(tweets_fts, rowid, full_text)
	VALUES ('delete', old.id, old.full_text);
	INSERT INTO tweets_fts(rowid, full_text) VALUES (new.id, new.full_text);
END;
`

// following gets a single-column index on each half of its composite
// key: "who follows X" and "who does X follow" both need to be cheap.
const followingDDL = `
CREATE TABLE IF NOT EXISTS following (
	followed_id INTEGER REFERENCES users(id),
	follower_id INTEGER REFERENCES users(id),
	first_seen TEXT,
	PRIMARY KEY (followed_id, follower_id)
);
CREATE INDEX IF NOT EXISTS idx_following_followed_id ON following(followed_id);
CREATE INDEX IF NOT EXISTS idx_following_follower_id ON following(follower_id);
`

const mediaTweetsDDL = `
CREATE TABLE IF NOT EXISTS media_tweets (
	media_id INTEGER REFERENCES media(id),
	tweets_id INTEGER REFERENCES tweets(id),
	PRIMARY KEY (media_id, tweets_id)
);
`

func execAll(db *gorm.DB, ddl ...string) error {
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// addMissingColumns alters the table behind model to include every
// model field it does not yet have. Add-only: existing columns and
// rows are never touched, so a newer binary can write into an older
// store without losing anything.
func addMissingColumns(db *gorm.DB, model interface{}) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return err
	}
	for _, field := range stmt.Schema.Fields {
		if field.DBName == "" {
			continue
		}
		if !db.Migrator().HasColumn(model, field.DBName) {
			if err := db.Migrator().AddColumn(model, field.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureTable(db *gorm.DB, model interface{}, ddl ...string) error {
	if db.Migrator().HasTable(model) {
		return addMissingColumns(db, model)
	}
	if len(ddl) > 0 {
		return execAll(db, ddl...)
	}
	return db.Migrator().CreateTable(model)
}

func ensureUserTables(db *gorm.DB) error {
	if err := ensureTable(db, &models.User{}, usersDDL, usersFTSDDL); err != nil {
		return err
	}
	return ensureTable(db, &models.Following{}, followingDDL)
}

func ensureTweetTables(db *gorm.DB) error {
	if err := ensureUserTables(db); err != nil {
		return err
	}
	if err := ensureTable(db, &models.Source{}); err != nil {
		return err
	}
	if err := ensureTable(db, &models.Place{}); err != nil {
		return err
	}
	return ensureTable(db, &models.Tweet{}, tweetsDDL, tweetsFTSDDL)
}

func ensureMediaTables(db *gorm.DB) error {
	if err := ensureTable(db, &models.Media{}); err != nil {
		return err
	}
	return ensureTable(db, &models.MediaTweet{}, mediaTweetsDDL)
}

func ensureCountHistoryTables(db *gorm.DB) error {
	if err := ensureTable(db, &models.CountHistoryType{}); err != nil {
		return err
	}
	if err := ensureTable(db, &models.CountHistory{}); err != nil {
		return err
	}
	return seedTypes(db, map[int]string{
		models.CountFollowers:  "followers_count",
		models.CountFriends:    "friends_count",
		models.CountListed:     "listed_count",
		models.CountFavourites: "favourites_count",
		models.CountStatuses:   "statuses_count",
	}, func(id int, name string) interface{} {
		return &models.CountHistoryType{ID: id, Name: name}
	})
}

func ensureSinceIDTables(db *gorm.DB) error {
	if err := ensureTable(db, &models.SinceIDType{}); err != nil {
		return err
	}
	if err := ensureTable(db, &models.SinceID{}); err != nil {
		return err
	}
	return seedTypes(db, map[int]string{
		models.FeedUserTimeline:     "user_timeline",
		models.FeedHomeTimeline:     "home_timeline",
		models.FeedMentionsTimeline: "mentions_timeline",
		models.FeedSearch:           "search",
		models.FeedFavorites:        "favorites",
	}, func(id int, name string) interface{} {
		return &models.SinceIDType{ID: id, Name: name}
	})
}

func seedTypes(db *gorm.DB, types map[int]string, build func(int, string) interface{}) error {
	for id, name := range types {
		row := build(id, name)
		if err := db.Where("id = ?", id).FirstOrCreate(row).Error; err != nil {
			return err
		}
	}
	return nil
}

// EnsureSchema brings every table the tool can write up to date. The
// save paths do this piecemeal on demand; the db command does it all
// at once.
func EnsureSchema(db *gorm.DB) error {
	if err := ensureTweetTables(db); err != nil {
		return err
	}
	if err := ensureMediaTables(db); err != nil {
		return err
	}
	if err := ensureCountHistoryTables(db); err != nil {
		return err
	}
	return ensureSinceIDTables(db)
}
