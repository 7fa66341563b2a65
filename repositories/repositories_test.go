package repositories

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"scraper.local/twitter-archive/common"
)

// newTestDB opens a fresh in-memory store, named after the test so
// parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := common.NewDB(dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
