package main

import (
	"log"
	"os"

	"gymflow-be/internal/model"
	"gymflow-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: pgcrypto extension: %v. Continuing...", err)
	}

	// Order matters: owners before the tables that cascade from them.
	log.Println("Step 2: AutoMigrate...")
	models := []interface{}{
		&model.Owner{},
		&model.Plan{},
		&model.PlanFeature{},
		&model.Member{},
		&model.Renewal{},
		&model.CheckinRecord{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// members.current_renewal_id and renewals.member_id reference each other, so the pointer FK
	// is added once both tables exist.
	log.Println("Step 3: Constraints and indexes...")
	postMigrationSQL := []string{
		`DO $$ BEGIN
		   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_members_current_renewal') THEN
		     ALTER TABLE members ADD CONSTRAINT fk_members_current_renewal
		       FOREIGN KEY (current_renewal_id) REFERENCES renewals(id) ON DELETE SET NULL DEFERRABLE INITIALLY DEFERRED;
		   END IF;
		 END $$;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_members_email_lower ON members (LOWER(email));`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_owners_email_lower ON owners (LOWER(email));`,
		`CREATE INDEX IF NOT EXISTS idx_renewals_member_date ON renewals (member_id, renewal_date DESC, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_checkins_owner_created ON checkin_records (owner_id, created_at DESC);`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: post-migration SQL failed: %v", err)
		}
	}

	log.Println("Success: database migration completed")
}
