package game

import (
	"time"
)

// ChoiceCount is the number of candidate tracks shown in every round.
const ChoiceCount = 4

type Phase string

const (
	PhaseIdle    Phase = "Idle"
	PhaseRunning Phase = "Running"
	PhaseEnded   Phase = "Ended"
)

type Status string

const (
	StatusCreated          Status = "Created"
	StatusAwaitingPlayback Status = "AwaitingPlayback"
	StatusActive           Status = "Active"
	StatusResolved         Status = "Resolved"
)

type Outcome string

const (
	OutcomeCorrect  Outcome = "Correct"
	OutcomeTimedOut Outcome = "TimedOut"
)

// Cause records what resolved a round.
type Cause string

const (
	CauseGuess       Cause = "guess"
	CauseRoundTime   Cause = "round_time"
	CauseSessionTime Cause = "session_time"
	CausePenalty     Cause = "penalty"
	CauseUnload      Cause = "unload"
	CauseEnded       Cause = "ended"
)

type EndReason string

const (
	ReasonTimeUp        EndReason = "time_up"
	ReasonPoolExhausted EndReason = "pool_exhausted"
	ReasonUnloaded      EndReason = "unloaded"
	ReasonEnded         EndReason = "ended"
)

// BonusInclusion decides whether the designated bonus track joins the pool.
type BonusInclusion string

const (
	BonusAlways BonusInclusion = "always" // added unless already present
	BonusNever  BonusInclusion = "never"
)

type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	ArtworkURL string `json:"artworkUrl,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Playable   bool   `json:"playable"`
}

type SessionConfig struct {
	GameTimeMs        int            `json:"gameTimeMs"`
	RoundTimeMs       int            `json:"roundTimeMs"`
	MaxRoundScore     int            `json:"maxRoundScore"`
	MaxMultiplier     int            `json:"maxMultiplier"`
	TickMs            int            `json:"tickMs"`
	InterRoundDelayMs int            `json:"interRoundDelayMs"`
	Bonus             BonusInclusion `json:"bonus"`
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		GameTimeMs:        5 * 60 * 1000,
		RoundTimeMs:       20000,
		MaxRoundScore:     300,
		MaxMultiplier:     8,
		TickMs:            100,
		InterRoundDelayMs: 2000,
		Bonus:             BonusAlways,
	}
}

// Upper bounds for session settings. They keep roundScore within int64 for
// any accepted config.
const (
	limitGameTimeMs      = 60 * 60 * 1000
	limitRoundTimeMs     = 5 * 60 * 1000
	limitMaxRoundScore   = 100000
	limitMaxMultiplier   = 100
	limitTickMs          = 1000
	limitInterRoundDelay = 60 * 1000
)

// WithDefaults fills zero or negative fields from def and caps oversized ones.
func (c SessionConfig) WithDefaults(def SessionConfig) SessionConfig {
	c.GameTimeMs = orDefault(c.GameTimeMs, def.GameTimeMs, limitGameTimeMs)
	c.RoundTimeMs = orDefault(c.RoundTimeMs, def.RoundTimeMs, limitRoundTimeMs)
	c.MaxRoundScore = orDefault(c.MaxRoundScore, def.MaxRoundScore, limitMaxRoundScore)
	c.MaxMultiplier = orDefault(c.MaxMultiplier, def.MaxMultiplier, limitMaxMultiplier)
	c.TickMs = orDefault(c.TickMs, def.TickMs, limitTickMs)
	c.InterRoundDelayMs = orDefault(c.InterRoundDelayMs, def.InterRoundDelayMs, limitInterRoundDelay)
	if c.Bonus == "" {
		c.Bonus = def.Bonus
	}
	return c
}

func orDefault(v, def, limit int) int {
	if v <= 0 {
		v = def
	}
	if v > limit {
		v = limit
	}
	return v
}

func (c SessionConfig) gameTime() time.Duration  { return ms(c.GameTimeMs) }
func (c SessionConfig) roundTime() time.Duration { return ms(c.RoundTimeMs) }
func (c SessionConfig) tick() time.Duration      { return ms(c.TickMs) }
func (c SessionConfig) interRoundDelay() time.Duration {
	return ms(c.InterRoundDelayMs)
}

// penalty is a third of the round, rounded up so three wrong guesses always
// use up a full round.
func (c SessionConfig) penalty() time.Duration {
	d := c.roundTime()
	return (d + 2) / 3
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// ChoiceHandle identifies a rendered set of choices on the presentation side.
type ChoiceHandle string

// Presenter renders the game and plays audio. The session calls it while
// holding its lock, so implementations must not call back into the session
// synchronously.
type Presenter interface {
	RenderChoices(round int, tracks []Track) ChoiceHandle
	MarkInactive(h ChoiceHandle, index int)
	Dispose(h ChoiceHandle)
	PlayTrack(t Track)
	StopPlayback()
	UpdateTimerDisplay(round, session time.Duration)
	UpdateScoreDisplay(score int)
	UpdateMultiplierDisplay(multiplier int)
	GameOver(sum Summary)
}

// RoundRecord is the outcome of one finished round.
type RoundRecord struct {
	Index             int     `json:"index"`
	Track             Track   `json:"track"`
	Outcome           Outcome `json:"outcome"`
	Cause             Cause   `json:"cause"`
	Score             int     `json:"score"`
	WrongGuesses      int     `json:"wrongGuesses"`
	MultiplierApplied int     `json:"multiplierApplied"`
	RemainingMs       int64   `json:"remainingMs"`
}

type Summary struct {
	Code       string        `json:"code"`
	Score      int           `json:"score"`
	Reason     EndReason     `json:"reason"`
	Correct    int           `json:"correct"`
	BestStreak int           `json:"bestStreak"`
	Rounds     []RoundRecord `json:"rounds"`
	StartedAt  time.Time     `json:"startedAt"`
	EndedAt    time.Time     `json:"endedAt"`
}
