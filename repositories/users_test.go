package repositories

import (
	"testing"
	"time"

	"scraper.local/twitter-archive/models"
)

func testUser(id int64, screenName string) *models.User {
	return &models.User{
		ID:             id,
		ScreenName:     screenName,
		Name:           "Test User",
		FollowersCount: 100,
		FriendsCount:   50,
		CreatedAt:      "2006-11-15T13:18:50Z",
	}
}

func TestUsersSaveIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := &UsersRepository{Db: db}

	if err := repo.Save([]*models.User{testUser(1, "alice")}, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save([]*models.User{testUser(1, "alice")}, 0); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	if n := countRows(t, db, "users"); n != 1 {
		t.Fatalf("users rows = %d, want 1", n)
	}
}

func TestUsersSaveUpdatesChangedFields(t *testing.T) {
	db := newTestDB(t)
	repo := &UsersRepository{Db: db}

	if err := repo.Save([]*models.User{testUser(1, "alice")}, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	renamed := testUser(1, "alice_new")
	if err := repo.Save([]*models.User{renamed}, 0); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	var stored models.User
	if err := db.Take(&stored, 1).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.ScreenName != "alice_new" {
		t.Fatalf("screen_name = %q, want alice_new", stored.ScreenName)
	}
}

func TestFollowingFirstSeenStable(t *testing.T) {
	db := newTestDB(t)
	repo := &UsersRepository{Db: db}

	follower := testUser(2, "bob")
	if err := repo.Save([]*models.User{follower}, 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	var first models.Following
	if err := db.Take(&first).Error; err != nil {
		t.Fatalf("load edge: %v", err)
	}

	if err := repo.Save([]*models.User{follower}, 1); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	var second models.Following
	if err := db.Take(&second).Error; err != nil {
		t.Fatalf("reload edge: %v", err)
	}
	if n := countRows(t, db, "following"); n != 1 {
		t.Fatalf("following rows = %d, want 1", n)
	}
	if second.FirstSeen != first.FirstSeen {
		t.Fatalf("first_seen changed: %q -> %q", first.FirstSeen, second.FirstSeen)
	}
}

func TestCountHistoryRecordsChangesOnly(t *testing.T) {
	db := newTestDB(t)
	repo := &UsersRepository{Db: db}

	save := func(followers int) {
		t.Helper()
		user := testUser(1, "alice")
		user.FollowersCount = followers
		if err := repo.Save([]*models.User{user}, 0); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	save(100)
	save(100)
	save(150)

	var n int64
	err := db.Model(&models.CountHistory{}).
		Where("type = ? AND user = ?", models.CountFollowers, int64(1)).
		Count(&n).Error
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("followers history rows = %d, want 2", n)
	}

	var latest models.CountHistory
	err = db.Where("type = ? AND user = ?", models.CountFollowers, int64(1)).
		Order("datetime DESC").
		Take(&latest).Error
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if latest.Count != 150 {
		t.Fatalf("latest count = %d, want 150", latest.Count)
	}
}

func TestTimestampsSortChronologically(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 12, 0, time.UTC)
	stamps := []string{
		base.Format(timestampLayout),
		base.Add(900 * time.Millisecond).Format(timestampLayout),
		base.Add(time.Second).Format(timestampLayout),
	}
	for i, s := range stamps {
		if len(s) != 30 {
			t.Fatalf("stamp %q is not fixed width", s)
		}
		if i > 0 && !(stamps[i-1] < s) {
			t.Fatalf("%q does not sort before %q", stamps[i-1], s)
		}
	}
}

func TestScreenNameToID(t *testing.T) {
	db := newTestDB(t)
	repo := &UsersRepository{Db: db}

	if err := repo.Save([]*models.User{testUser(42, "carol")}, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	id, err := repo.ScreenNameToID("carol")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d, want 42", id)
	}
}
