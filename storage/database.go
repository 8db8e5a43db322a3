package storage

import (
	"log"
	"os"

	"github.com/bhumi3292/DreamDwell-web/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

// Migrate applies the schema plus the raw indexes gorm tags cannot express.
// Exported so DB-backed tests run the exact production schema.
func Migrate(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Availability{},
		&models.Booking{},
		&models.Chat{},
		&models.ChatMessage{},
		&models.Notification{},
	)

	// Every unique guard below is partial on deleted_at IS NULL: a soft-deleted
	// row must never block re-creating the same tuple.

	// One availability record per landlord, property and day.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_avail_owner_day
		ON availabilities (landlord_id, property_id, date)
		WHERE deleted_at IS NULL`)

	// Partial unique index: the race-safe guard against double-booking a slot.
	// Only pending/confirmed rows occupy the tuple; cancelled, rejected,
	// completed and rescheduled rows release it.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_booking_slot
		ON bookings (property_id, date, time_slot)
		WHERE status IN ('pending', 'confirmed') AND deleted_at IS NULL`)

	// One chat per ordered participant pair and property (0 when unscoped).
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_pair_property
		ON chats (user_one_id, user_two_id, COALESCE(property_id, 0))
		WHERE deleted_at IS NULL`)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	Migrate(db)
	return db
}
