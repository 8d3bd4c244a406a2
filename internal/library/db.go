package library

import (
	"context"
	"fmt"

	"github.com/chiel/spotify-guess-the-intro/internal/game"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DB is a sqlite3 track library.
type DB struct{ *gorm.DB }

type trackRow struct {
	ID         string `gorm:"primaryKey"`
	Title      string `gorm:"not null"`
	Artist     string `gorm:"not null"`
	Album      string
	ArtworkURL string
	PreviewURL string
	Playable   bool `gorm:"not null"`
}

func (trackRow) TableName() string { return "tracks" }

// Open returns a connection to a migrated sqlite3 database file on disk,
// creating the file if necessary.
func Open(filename string) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening db file at '%s': %w", filename, err)
	}
	if err := gdb.AutoMigrate(&trackRow{}); err != nil {
		return nil, fmt.Errorf("error migrating db at '%s': %w", filename, err)
	}
	return &DB{gdb}, nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Import inserts tracks, skipping IDs that are already stored. It returns the
// number of rows added.
func (db *DB) Import(tracks []game.Track) (int64, error) {
	if len(tracks) == 0 {
		return 0, nil
	}
	rows := make([]trackRow, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, trackRow{
			ID:         t.ID,
			Title:      t.Title,
			Artist:     t.Artist,
			Album:      t.Album,
			ArtworkURL: t.ArtworkURL,
			PreviewURL: t.PreviewURL,
			Playable:   t.Playable,
		})
	}
	res := db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("error importing %d tracks: %w", len(tracks), res.Error)
	}
	return res.RowsAffected, nil
}

// Tracks returns every stored track in insertion order.
func (db *DB) Tracks(ctx context.Context) ([]game.Track, error) {
	var rows []trackRow
	if err := db.WithContext(ctx).Order("rowid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error querying tracks: %w", err)
	}
	out := make([]game.Track, 0, len(rows))
	for _, r := range rows {
		out = append(out, game.Track{
			ID:         r.ID,
			Title:      r.Title,
			Artist:     r.Artist,
			Album:      r.Album,
			ArtworkURL: r.ArtworkURL,
			PreviewURL: r.PreviewURL,
			Playable:   r.Playable,
		})
	}
	return out, nil
}
