package migrations

import (
	"log"

	"tourism-backend/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// all is append-only. Never edit a migration that has shipped.
var all = []*gormigrate.Migration{
	{
		ID: "202610010001_accounts",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Account{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("accounts")
		},
	},
	{
		ID: "202610010002_places",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Place{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("places")
		},
	},
	{
		ID: "202610010003_bookings",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Booking{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("bookings")
		},
	},
	{
		ID: "202610010004_revoked_sessions",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.RevokedSession{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("revoked_sessions")
		},
	},
}

func newMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, gormigrate.DefaultOptions, all)
}

// Run applies every pending migration.
func Run(db *gorm.DB) error {
	if err := newMigrator(db).Migrate(); err != nil {
		return err
	}
	log.Println("✅ Database migrated")
	return nil
}

// RollbackLast undoes the most recent migration.
func RollbackLast(db *gorm.DB) error {
	return newMigrator(db).RollbackLast()
}
