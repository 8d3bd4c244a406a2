package library

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chiel/spotify-guess-the-intro/internal/game"
)

//go:embed sample.json
var sample []byte

// Sample returns the small built-in library used when nothing is configured.
func Sample() []game.Track {
	var tracks []game.Track
	if err := json.Unmarshal(sample, &tracks); err != nil {
		panic(fmt.Sprintf("library: broken sample.json: %v", err))
	}
	return tracks
}

// LoadFile reads a JSON array of tracks.
func LoadFile(path string) ([]game.Track, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading library '%s': %w", path, err)
	}
	var tracks []game.Track
	if err := json.Unmarshal(b, &tracks); err != nil {
		return nil, fmt.Errorf("error parsing library '%s': %w", path, err)
	}
	return tracks, nil
}

// Load picks the library source: the SQLite database if dbPath is set, then
// the JSON file, then the built-in sample.
func Load(ctx context.Context, file, dbPath string) ([]game.Track, string, error) {
	switch {
	case dbPath != "":
		db, err := Open(dbPath)
		if err != nil {
			return nil, "", err
		}
		defer db.Close()
		tracks, err := db.Tracks(ctx)
		return tracks, "db:" + dbPath, err
	case file != "":
		tracks, err := LoadFile(file)
		return tracks, "file:" + file, err
	default:
		return Sample(), "sample", nil
	}
}

// Bonus finds the bonus track in the library, or builds it from the given
// metadata. An empty id disables the bonus track.
func Bonus(tracks []game.Track, id, title, artist string) *game.Track {
	if id == "" {
		return nil
	}
	for _, t := range tracks {
		if t.ID == id {
			t := t
			return &t
		}
	}
	return &game.Track{ID: id, Title: title, Artist: artist, Playable: true}
}
