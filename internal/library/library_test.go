package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chiel/spotify-guess-the-intro/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample(t *testing.T) {
	tracks := Sample()
	require.Len(t, tracks, 20)
	ids := map[string]bool{}
	for _, tr := range tracks {
		assert.NotEmpty(t, tr.Title)
		assert.True(t, tr.Playable)
		assert.False(t, ids[tr.ID], "duplicate id %s", tr.ID)
		ids[tr.ID] = true
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"a","title":"A","artist":"X","playable":true},
		{"id":"b","title":"B","artist":"Y","playable":false}
	]`), 0644))

	tracks, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "A", tracks[0].Title)
	assert.False(t, tracks[1].Playable)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestDBImportAndTracks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	tracks := []game.Track{
		{ID: "a", Title: "A", Artist: "X", Playable: true},
		{ID: "b", Title: "B", Artist: "Y", Album: "Z", Playable: false},
	}
	n, err := db.Import(tracks)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = db.Import(append(tracks, game.Track{ID: "c", Title: "C", Artist: "W", Playable: true}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "existing ids are skipped")

	got, err := db.Tracks(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, tracks[1], got[1])
	assert.Equal(t, "c", got[2].ID)
}

func TestLoadPrefersDB(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "lib.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	_, err = db.Import([]game.Track{{ID: "db", Title: "From DB", Artist: "X", Playable: true}})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	tracks, src, err := Load(context.Background(), "ignored.json", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "db:"+dbPath, src)
	require.Len(t, tracks, 1)

	tracks, src, err = Load(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "sample", src)
	assert.Len(t, tracks, 20)
}

func TestBonus(t *testing.T) {
	lib := []game.Track{{ID: "x", Title: "Known", Artist: "Someone", Album: "LP", Playable: true}}

	assert.Nil(t, Bonus(lib, "", "t", "a"))

	b := Bonus(lib, "x", "ignored", "ignored")
	require.NotNil(t, b)
	assert.Equal(t, "LP", b.Album)

	b = Bonus(lib, "rick", "Never Gonna Give You Up", "Rick Astley")
	require.NotNil(t, b)
	assert.Equal(t, game.Track{ID: "rick", Title: "Never Gonna Give You Up", Artist: "Rick Astley", Playable: true}, *b)
}
