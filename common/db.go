package common

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the archive database at path. The file is created on
// first use. WAL mode keeps readers usable while a long import runs.
// Foreign keys stay declarative: follower-id feeds legitimately write
// edges for accounts whose user rows were never fetched.
func NewDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.Exec(`PRAGMA journal_mode=WAL`).Error; err != nil {
		return nil, err
	}
	return db, nil
}

// TableNames lists the user tables currently present in the store.
func TableNames(db *gorm.DB) ([]string, error) {
	var names []string
	err := db.Raw(
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`,
	).Scan(&names).Error
	return names, err
}
