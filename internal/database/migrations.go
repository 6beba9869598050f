package database

import (
	"fmt"

	"wardwise/server/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(
		&models.Property{},
		&models.Snapshot{},
		&models.Run{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Composite index backing the scored-property listing queries
	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_segment_score
		ON properties(market_segment, final_score);
	`).Error; err != nil {
		return err
	}

	return nil
}
