package config

import (
	"os"
	"strconv"
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/game"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	LibraryFile    string
	LibraryDB      string
	BonusTrackID   string
	BonusTitle     string
	BonusArtist    string
	BonusInclusion string

	GameTime        time.Duration
	RoundTime       time.Duration
	MaxRoundScore   int
	MaxMultiplier   int
	TickInterval    time.Duration
	InterRoundDelay time.Duration

	GMUser string
	GMPass string

	ExportEnabled bool
	ExportFile    string

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// FromEnv reads the configuration from the environment. A .env file in the
// working directory is loaded first; variables already set win.
func FromEnv() Config {
	_ = godotenv.Load()

	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.LibraryFile = os.Getenv("LIBRARY_FILE")
	c.LibraryDB = os.Getenv("LIBRARY_DB")
	c.BonusTrackID = lookupenv("BONUS_TRACK_ID", "spotify:track:6JEK0CvvjDjjMUBFoXShNZ")
	c.BonusTitle = getenv("BONUS_TITLE", "Never Gonna Give You Up")
	c.BonusArtist = getenv("BONUS_ARTIST", "Rick Astley")
	c.BonusInclusion = getenv("BONUS_INCLUSION", "always")
	c.GameTime = getenvDuration("GAME_TIME", 5*time.Minute)
	c.RoundTime = getenvDuration("ROUND_TIME", 20*time.Second)
	c.MaxRoundScore = getenvInt("MAX_ROUND_SCORE", 300)
	c.MaxMultiplier = getenvInt("MAX_MULTIPLIER", 8)
	c.TickInterval = getenvDuration("TICK_INTERVAL", 100*time.Millisecond)
	c.InterRoundDelay = getenvDuration("INTER_ROUND_DELAY", 2*time.Second)
	c.GMUser = os.Getenv("GM_USER")
	c.GMPass = os.Getenv("GM_PASS")
	c.ExportEnabled = getenvBool("EXPORT_ENABLED", false)
	c.ExportFile = getenv("EXPORT_FILE", "./gti-results.txt")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.LogFile = os.Getenv("LOG_FILE")
	c.LogMaxSizeMB = getenvInt("LOG_MAX_SIZE_MB", 10)
	c.LogMaxBackups = getenvInt("LOG_MAX_BACKUPS", 3)
	c.LogMaxAgeDays = getenvInt("LOG_MAX_AGE_DAYS", 28)
	return c
}

// Session returns the default settings for new game sessions.
func (c Config) Session() game.SessionConfig {
	bonus := game.BonusInclusion(c.BonusInclusion)
	if bonus != game.BonusAlways && bonus != game.BonusNever {
		bonus = ""
	}
	return game.SessionConfig{
		GameTimeMs:        int(c.GameTime.Milliseconds()),
		RoundTimeMs:       int(c.RoundTime.Milliseconds()),
		MaxRoundScore:     c.MaxRoundScore,
		MaxMultiplier:     c.MaxMultiplier,
		TickMs:            int(c.TickInterval.Milliseconds()),
		InterRoundDelayMs: int(c.InterRoundDelay.Milliseconds()),
		Bonus:             bonus,
	}.WithDefaults(game.DefaultSessionConfig())
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// lookupenv keeps a value that is set but empty.
func lookupenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// getenvDuration accepts Go durations ("20s") or plain milliseconds.
func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	return def
}

func getenvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
