package config

import (
	"os"
	"testing"
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GAME_TIME", "ROUND_TIME", "MAX_ROUND_SCORE", "BONUS_INCLUSION", "EXPORT_ENABLED", "MAX_MULTIPLIER", "TICK_INTERVAL", "INTER_ROUND_DELAY"} {
		t.Setenv(k, "")
	}
	c := FromEnv()

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 5*time.Minute, c.GameTime)
	assert.Equal(t, 20*time.Second, c.RoundTime)
	assert.Equal(t, 300, c.MaxRoundScore)
	assert.False(t, c.ExportEnabled)
	assert.Equal(t, game.DefaultSessionConfig(), c.Session())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("GAME_TIME", "90s")
	t.Setenv("ROUND_TIME", "15000")
	t.Setenv("TICK_INTERVAL", "nonsense")
	t.Setenv("MAX_MULTIPLIER", "4")
	t.Setenv("BONUS_INCLUSION", "never")
	t.Setenv("EXPORT_ENABLED", "true")

	c := FromEnv()
	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, 90*time.Second, c.GameTime)
	assert.Equal(t, 15*time.Second, c.RoundTime)
	assert.Equal(t, 100*time.Millisecond, c.TickInterval)
	assert.True(t, c.ExportEnabled)

	s := c.Session()
	assert.Equal(t, 90000, s.GameTimeMs)
	assert.Equal(t, 15000, s.RoundTimeMs)
	assert.Equal(t, 4, s.MaxMultiplier)
	assert.Equal(t, game.BonusNever, s.Bonus)
}

func TestBonusTrackIDSetEmptyDisablesBonus(t *testing.T) {
	t.Setenv("BONUS_TRACK_ID", "")
	assert.Empty(t, FromEnv().BonusTrackID)

	os.Unsetenv("BONUS_TRACK_ID")
	assert.Equal(t, "spotify:track:6JEK0CvvjDjjMUBFoXShNZ", FromEnv().BonusTrackID)
}
