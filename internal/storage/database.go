package storage

import (
	"github.com/cyberchess/cyberchess/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database and keeps the schema updated via
// AutoMigrate. The catalog is never persisted; config stays the single
// source of truth for tactics and initial stats.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&game.Session{},
		&game.Player{},
		&game.Move{},
		&game.GameRecord{},
		&game.User{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
