package commands

import (
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func identifierFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "attach", Usage: "additional database file to attach"},
		&cli.StringFlag{Name: "sql", Usage: "SQL query to fetch identifiers to use"},
	}
}

// resolveIdentifiers combines positional identifiers with the first
// column of every row returned by --sql. Files named by --attach are
// attached first, under an alias derived from the file name, so the
// query can join across stores.
func resolveIdentifiers(db *gorm.DB, c *cli.Context, identifiers []string) ([]string, error) {
	query := c.String("sql")
	if query == "" {
		return identifiers, nil
	}
	var fromSQL []string
	// ATTACH is per-connection state, so the attaches and the query
	// must share one pinned connection from the pool.
	err := db.Connection(func(tx *gorm.DB) error {
		for _, path := range c.StringSlice("attach") {
			err := tx.Exec(`ATTACH DATABASE ? AS "`+attachAlias(path)+`"`, path).Error
			if err != nil {
				return err
			}
		}
		return tx.Raw(query).Scan(&fromSQL).Error
	})
	if err != nil {
		return nil, err
	}
	return append(identifiers, fromSQL...), nil
}

func attachAlias(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", "_")
	return strings.ReplaceAll(base, `"`, "")
}
