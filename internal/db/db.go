package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/agendaplus/salon-scheduler/internal/config"
	"github.com/agendaplus/salon-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Salon{},
		&models.Professional{},
		&models.Service{},
		&models.Client{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	ensureNoOverlapConstraint(db)

	return db
}

// Gorm maps time.Time columns to timestamptz, so the range expression
// must be tstzrange; tsrange over timestamptz does not resolve.
const noOverlapConstraintDDL = `
        DO $$ BEGIN
            ALTER TABLE appointments
            ADD CONSTRAINT appointments_no_overlap
            EXCLUDE USING gist (
                professional_id WITH =,
                tstzrange(start_time, end_time) WITH &&
            ) WHERE (status IN ('scheduled', 'confirmed'));
        EXCEPTION
            WHEN duplicate_table THEN NULL;
            WHEN duplicate_object THEN NULL;
        END $$;
`

// ensureNoOverlapConstraint installs the structural guard against
// overlapping active appointments per professional. Half-open range
// semantics: intervals touching at an endpoint do not conflict.
func ensureNoOverlapConstraint(db *gorm.DB) {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		log.Fatalf("failed to create btree_gist extension: %v", err)
	}

	if err := db.Exec(noOverlapConstraintDDL).Error; err != nil {
		log.Fatalf("failed to create no-overlap constraint: %v", err)
	}
}
