package database

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"servicehub/internal/domain"
)

func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Info("using SQLite for local development", zap.String("dsn", dsn))

	// modernc driver: no cgo for local/dev and tests.
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Booking{},
		&domain.Notification{},
		&domain.DeviceToken{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.ProviderService{},
		&domain.GalleryImage{},
		&domain.BusinessHours{},
		&domain.Rating{},
		&domain.Settings{},
		&domain.Upload{},
	)
}
