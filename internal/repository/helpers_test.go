package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
)

// newTestDB opens a migrated file-backed SQLite database. A single
// connection keeps writers from tripping over SQLITE_BUSY while still
// interleaving statements from concurrent goroutines.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), database.Config(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id string, price int64) models.Product {
	t.Helper()

	p := models.Product{
		ID:         id,
		Name:       "Product " + id,
		PriceCents: money.Cents(price),
		Rating:     models.Rating{Stars: 4.5, Count: 10},
		Keywords:   models.Keywords{"sample"},
	}
	require.NoError(t, NewProductRepository(db).Create(context.Background(), &p))
	return p
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	u := models.User{Name: "Test", Email: email}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), &u))
	require.NotEqual(t, uuid.Nil, u.ID)
	return u
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}
