package models

// Migration is one ledger entry: a named schema-evolution step and
// when it was applied. Append-only.
type Migration struct {
	Name    string `gorm:"size:100;primaryKey"`
	Applied string `gorm:"size:30"`
}

func (m *Migration) TableName() string {
	return "migrations"
}
