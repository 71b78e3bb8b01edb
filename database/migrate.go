package database

import (
	"github.com/lshigami/examhall/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// singleActiveIndex lets at most one row of tests carry is_active = true.
const singleActiveIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_tests_single_active ON tests (is_active) WHERE is_active`

func Migrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Test{},
		&model.Question{},
		&model.Answer{},
		&model.ExamSession{},
		&model.RecordedAnswer{},
		&model.Admin{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	if err := db.Exec(singleActiveIndex).Error; err != nil {
		log.Error().Err(err).Msg("Failed to create single-active index")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
