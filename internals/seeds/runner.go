package seeds

import (
	"log"
	"os"

	"gorm.io/gorm"

	people "institute_backend/internals/seeds/people"
)

// RunAllSeeds: dijalankan saat RUN_SEEDS=true.
func RunAllSeeds(db *gorm.DB) {
	path := os.Getenv("SEED_PEOPLE_FILE")
	if path == "" {
		path = "internals/seeds/people/data_people.json"
	}
	if _, err := os.Stat(path); err != nil {
		log.Printf("ℹ️ File seed %s tidak ada, lewati seed people", path)
		return
	}
	if err := people.SeedPeopleFromJSON(db, path); err != nil {
		log.Printf("❌ Seed people gagal: %v", err)
	}
}
