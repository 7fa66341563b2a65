package repositories

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"scraper.local/twitter-archive/models"
)

func TestMigrationsSkipBrandNewStore(t *testing.T) {
	db := newTestDB(t)
	repo := &MigrationsRepository{Db: db}

	ran := false
	steps := []MigrationStep{{
		Name: "should_not_run",
		Run: func(db *gorm.DB) error {
			ran = true
			return nil
		},
	}}
	if err := repo.Apply(steps); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if ran {
		t.Fatal("step ran on a store with no tables")
	}
	if db.Migrator().HasTable("migrations") {
		t.Fatal("ledger created on an untouched store")
	}
}

func TestMigrationsRunOnceInOrder(t *testing.T) {
	db := newTestDB(t)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	repo := &MigrationsRepository{Db: db}

	var order []string
	step := func(name string) MigrationStep {
		return MigrationStep{Name: name, Run: func(db *gorm.DB) error {
			order = append(order, name)
			return nil
		}}
	}
	steps := []MigrationStep{step("first"), step("second")}
	for i := 0; i < 2; i++ {
		if err := repo.Apply(steps); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("run order = %v", order)
	}
	if n := countRows(t, db, "migrations"); n != 2 {
		t.Fatalf("ledger rows = %d, want 2", n)
	}
}

func TestMigrationsRecordOnlyCompletedSteps(t *testing.T) {
	db := newTestDB(t)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	repo := &MigrationsRepository{Db: db}

	boom := errors.New("boom")
	steps := []MigrationStep{
		{Name: "ok", Run: func(db *gorm.DB) error { return nil }},
		{Name: "fails", Run: func(db *gorm.DB) error { return boom }},
	}
	if err := repo.Apply(steps); !errors.Is(err, boom) {
		t.Fatalf("apply = %v, want boom", err)
	}
	var applied []models.Migration
	if err := db.Find(&applied).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(applied) != 1 || applied[0].Name != "ok" {
		t.Fatalf("ledger = %+v", applied)
	}
}

func TestConvertSourceColumn(t *testing.T) {
	db := newTestDB(t)
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	err := db.Exec(
		`INSERT INTO tweets (id, user, created_at, full_text, source) VALUES (1, 10, ?, 'old row', ?)`,
		"2019-09-04T13:33:12Z", `<a href="URL" rel="nofollow">NAME</a>`,
	).Error
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := &MigrationsRepository{Db: db}
	if err := repo.Apply(DefaultMigrations()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	var tweet models.Tweet
	if err := db.Take(&tweet, 1).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if tweet.Source == nil || *tweet.Source != "d3c1d39c57fecfc09202f20ea5e2db30262029fd" {
		t.Fatalf("source = %v, want hash reference", tweet.Source)
	}
	var src models.Source
	if err := db.Take(&src, "id = ?", *tweet.Source).Error; err != nil {
		t.Fatalf("sources row missing: %v", err)
	}
	if src.Name != "NAME" || src.URL != "URL" {
		t.Fatalf("source row = %+v", src)
	}
}
