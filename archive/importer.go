package archive

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Importer loads personal-data export files into archive_* tables.
// Tables are dropped and rebuilt on every import so a re-run replaces
// rather than accumulates.
type Importer struct {
	Db  *gorm.DB
	Log *logrus.Entry
}

func NewImporter(db *gorm.DB, log *logrus.Entry) *Importer {
	return &Importer{Db: db, Log: log}
}

// ImportPath ingests every .js record file found at path, which may be
// the export zip itself, a directory extracted from it, or a single
// record file.
func (im *Importer) ImportPath(target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return im.importDir(target)
	}
	if strings.HasSuffix(target, ".js") {
		content, err := os.ReadFile(target)
		if err != nil {
			return err
		}
		return im.ImportFile(filepath.Base(target), content)
	}
	return im.importZip(target)
}

func (im *Importer) importDir(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".js") {
			return nil
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return im.ImportFile(filepath.Base(p), content)
	})
}

func (im *Importer) importZip(zipPath string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()
	for _, entry := range reader.File {
		if !strings.HasSuffix(entry.Name, ".js") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
		if err := im.ImportFile(path.Base(entry.Name), content); err != nil {
			return err
		}
	}
	return nil
}

// ImportFile ingests one record file. Files with no registered handler
// are logged and skipped, not fatal.
func (im *Importer) ImportFile(filename string, content []byte) error {
	if !strings.HasSuffix(filename, ".js") {
		return fmt.Errorf("archive: %s does not end with .js", filename)
	}
	name := strings.TrimSuffix(filename, ".js")
	handler, ok := feedHandlers[name]
	if !ok {
		im.Log.WithField("file", filename).Warn("no handler for archive file, skipping")
		return nil
	}
	data, err := ExtractJSON(content)
	if err != nil {
		im.Log.WithField("file", filename).WithError(err).Warn("unreadable archive file, skipping")
		return nil
	}
	for table, rows := range handler.transform(data) {
		if err := im.writeTable(table, rows, handler.pk); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) writeTable(table string, rows []Row, pk string) error {
	tableName := "archive_" + strings.ReplaceAll(table, "-", "_")
	if im.Db.Migrator().HasTable(tableName) {
		if err := im.Db.Exec(fmt.Sprintf(`DROP TABLE "%s"`, tableName)).Error; err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	if pk == "" {
		pk = "pk"
		for _, row := range rows {
			row[pk] = hashRow(row)
		}
	}
	columns := columnsFor(rows, pk)
	if err := im.Db.Exec(createTableSQL(tableName, columns, pk, rows)).Error; err != nil {
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = `"` + col + `"`
	}
	insert := fmt.Sprintf(`INSERT OR REPLACE INTO "%s" (%s) VALUES (%s)`,
		tableName, strings.Join(quoted, ", "), placeholders)
	return im.Db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			values := make([]any, len(columns))
			for i, col := range columns {
				values[i] = row[col]
			}
			if err := tx.Exec(insert, values...).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// columnsFor returns the union of keys across rows, primary key first,
// the rest sorted for a stable layout.
func columnsFor(rows []Row, pk string) []string {
	seen := map[string]bool{pk: true}
	var columns []string
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	sort.Strings(columns)
	return append([]string{pk}, columns...)
}

func createTableSQL(tableName string, columns []string, pk string, rows []Row) string {
	var defs []string
	for _, col := range columns {
		def := fmt.Sprintf(`"%s" %s`, col, columnType(col, rows))
		if col == pk {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf(`CREATE TABLE "%s" (%s)`, tableName, strings.Join(defs, ", "))
}

// columnType infers an affinity from the first non-nil value seen.
func columnType(col string, rows []Row) string {
	for _, row := range rows {
		switch row[col].(type) {
		case nil:
			continue
		case int64, bool:
			return "INTEGER"
		case float64:
			return "REAL"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

// hashRow derives a content-addressed key for rows with no natural
// primary key. Map marshalling sorts keys, so the digest is stable for
// identical content.
func hashRow(row Row) string {
	encoded, _ := json.Marshal(map[string]any(row))
	digest := sha1.Sum(encoded)
	return hex.EncodeToString(digest[:])
}
