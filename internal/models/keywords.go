package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Keywords is a search keyword list stored as a postgres text[] using the
// array literal encoding of pq.StringArray. Other dialects store the same
// literal in a text column.
type Keywords []string

func (k Keywords) Value() (driver.Value, error) {
	return pq.StringArray(k).Value()
}

func (k *Keywords) Scan(src interface{}) error {
	return (*pq.StringArray)(k).Scan(src)
}

// GormDataType lets the schema parser accept the slice; the column type
// itself comes from GormDBDataType.
func (Keywords) GormDataType() string {
	return "text"
}

// GormDBDataType picks the column type per dialect.
func (Keywords) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
