package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"institute_backend/internals/configs"
	attendanceModel "institute_backend/internals/features/attendance/model"
	peopleModel "institute_backend/internals/features/people/model"
)

var DB *gorm.DB

// ConnectDB: DB_DRIVER=postgres (default) atau sqlite (lokal/dev).
func ConnectDB() {
	driver := strings.ToLower(getenv("DB_DRIVER", "postgres"))

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := getenv("SQLITE_PATH", "institute.db")
		log.Printf("🔌 Koneksi ke SQLite (%s)...", path)
		db, err = OpenSQLite(path)
	default:
		log.Println("🔌 Koneksi ke PostgreSQL...")
		db, err = OpenPostgres()
	}
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func OpenPostgres() (*gorm.DB, error) {
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=institute&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		getenv("DB_PORT", "5432"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	// extended protocol: kolom jsonb (datatypes.JSONType) dikirim sebagai []byte.
	// Set DB_PREFER_SIMPLE_PROTOCOL=true hanya di belakang PgBouncer transaction pooling.
	simple := strings.EqualFold(getenv("DB_PREFER_SIMPLE_PROTOCOL", "false"), "true")

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: simple,
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
}

// OpenSQLite: path file atau DSN ("file:x?mode=memory&cache=shared").
// Satu koneksi tulis; foreign keys on.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	if !strings.Contains(dsn, "_pragma=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate: skema ledger + directory (unique index ikut dibuat).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&peopleModel.BatchModel{},
		&peopleModel.StudentModel{},
		&peopleModel.StaffModel{},
		&attendanceModel.StaffAttendanceModel{},
		&attendanceModel.StudentAttendanceModel{},
	)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	if DB.Dialector.Name() == "sqlite" {
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		var n int64
		if err := DB.Model(&attendanceModel.StaffAttendanceModel{}).Limit(1).Count(&n).Error; err != nil {
			log.Printf("warm-up query err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
