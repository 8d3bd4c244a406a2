package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/clock"
	"github.com/rs/zerolog"
)

// Deps are the collaborators of a Session. Nil fields get working defaults,
// except Presenter which is required.
type Deps struct {
	Presenter Presenter
	Clock     clock.Clock
	Rand      *rand.Rand
	Logger    *zerolog.Logger
}

// Session is one timed game spanning many rounds. Every exported method is
// safe to call from any goroutine; all of them, and every timer callback,
// run one at a time under the session lock.
type Session struct {
	Code       string
	CreatedAt  time.Time
	Config     SessionConfig
	Phase      Phase
	Score      int
	Multiplier int
	Reason     EndReason

	history   []*Round
	current   *Round
	remaining time.Duration
	pool      *TrackPool
	library   []Track
	bonus     *Track
	next      clock.Timer
	ending    bool

	streak     int
	bestStreak int
	startedAt  time.Time
	endedAt    time.Time

	presenter Presenter
	clock     clock.Clock
	rng       *rand.Rand
	log       zerolog.Logger

	mu sync.Mutex
}

func NewSession(code string, cfg SessionConfig, library []Track, bonus *Track, d Deps) *Session {
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := zerolog.Nop()
	if d.Logger != nil {
		logger = *d.Logger
	}
	return &Session{
		Code:       code,
		CreatedAt:  d.Clock.Now().UTC(),
		Config:     cfg.WithDefaults(DefaultSessionConfig()),
		Phase:      PhaseIdle,
		Multiplier: 1,
		library:    library,
		bonus:      bonus,
		presenter:  d.Presenter,
		clock:      d.Clock,
		rng:        d.Rand,
		log:        logger,
	}
}

// Start builds the pool, sets the time budget and opens the first round.
// A pool that cannot serve a round ends the session and is returned as
// ErrEmptyPool or ErrInsufficientPool.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Phase != PhaseIdle {
		return ErrInvalidPhase
	}

	tracks := append([]Track(nil), s.library...)
	if s.bonus != nil && s.Config.Bonus == BonusAlways {
		// NewTrackPool drops it again if the library already has it
		tracks = append(tracks, *s.bonus)
	}
	pool, err := NewTrackPool(tracks, s.rng)
	if err != nil {
		s.Phase = PhaseEnded
		s.Reason = ReasonPoolExhausted
		return err
	}

	s.pool = pool
	s.remaining = s.Config.gameTime()
	s.Multiplier = 1
	s.Phase = PhaseRunning
	s.startedAt = s.clock.Now()
	s.presenter.UpdateScoreDisplay(s.Score)
	s.presenter.UpdateMultiplierDisplay(s.Multiplier)
	s.log.Info().Int("pool", pool.Len()).Dur("budget", s.remaining).Msg("game started")

	if err := s.startRound(); err != nil {
		s.Phase = PhaseEnded
		s.Reason = ReasonPoolExhausted
		return err
	}
	return nil
}

// PlaybackStarted reports that the current round's audio is audible.
func (s *Session) PlaybackStarted() {
	s.dispatch(Event{Kind: EventPlaybackStarted})
}

// Choose submits a guess for the current round. Guesses outside a live
// round or on a disabled choice are ignored.
func (s *Session) Choose(index int) error {
	if index < 0 || index >= ChoiceCount {
		return ErrInvalidGuessIndex
	}
	s.dispatch(Event{Kind: EventGuess, Index: index})
	return nil
}

// Unload resolves the current round as a loss and ends the session.
func (s *Session) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end(ReasonUnloaded, CauseUnload)
}

// End stops the session early, forfeiting the current round.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end(ReasonEnded, CauseEnded)
}

func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clampZero(s.remaining)
}

// History returns the records of all finished rounds.
func (s *Session) History() []RoundRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RoundRecord, 0, len(s.history))
	for _, r := range s.history {
		out = append(out, r.record())
	}
	return out
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary()
}

func (s *Session) dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Phase != PhaseRunning || s.current == nil {
		return
	}
	s.current.handle(s, ev)
}

// onTick is the ticker callback of r. A tick of a round that is no longer
// current is dropped.
func (s *Session) onTick(r *Round) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Phase != PhaseRunning || s.current != r {
		return
	}
	r.handle(s, Event{Kind: EventTick})
}

func (s *Session) startRound() error {
	r, err := newRound(s, len(s.history)+1)
	if err != nil {
		return err
	}
	s.current = r
	s.log.Info().Int("round", r.Index).Str("roundId", r.ID).Int("pool", s.pool.Len()).Msg("round started")
	return nil
}

func (s *Session) beginNextRound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Phase != PhaseRunning || s.ending || s.current != nil {
		return
	}
	s.next = nil
	if err := s.startRound(); err != nil {
		s.log.Warn().Err(err).Msg("cannot start round")
		s.end(ReasonPoolExhausted, CauseEnded)
	}
}

func (s *Session) roundResolved(r *Round) {
	s.history = append(s.history, r)
	s.current = nil
	s.Score += r.ScoreAwarded
	if r.Outcome == OutcomeCorrect {
		s.streak++
		if s.streak > s.bestStreak {
			s.bestStreak = s.streak
		}
	} else {
		s.streak = 0
	}
	s.presenter.UpdateScoreDisplay(s.Score)
	s.log.Info().
		Int("round", r.Index).
		Str("outcome", string(r.Outcome)).
		Str("cause", string(r.Cause)).
		Int("score", r.ScoreAwarded).
		Int("total", s.Score).
		Msg("round resolved")

	if s.ending {
		return
	}
	if s.remaining <= 0 {
		s.end(ReasonTimeUp, CauseSessionTime)
		return
	}
	s.next = s.clock.After(s.Config.interRoundDelay(), s.beginNextRound)
}

func (s *Session) setMultiplier(m int) {
	if m == s.Multiplier {
		return
	}
	s.Multiplier = m
	s.presenter.UpdateMultiplierDisplay(m)
}

// end makes the session terminal. A live round is forfeited first so the
// history stays complete.
func (s *Session) end(reason EndReason, cause Cause) {
	if s.Phase == PhaseIdle {
		s.Phase = PhaseEnded
		s.Reason = reason
		return
	}
	if s.Phase != PhaseRunning || s.ending {
		return
	}
	s.ending = true
	if s.next != nil {
		s.next.Stop()
		s.next = nil
	}
	if s.current != nil {
		s.current.handle(s, Event{Kind: EventForfeit, Cause: cause})
	}
	s.Phase = PhaseEnded
	s.Reason = reason
	s.endedAt = s.clock.Now()
	sum := s.summary()
	s.log.Info().Str("reason", string(reason)).Int("score", s.Score).Int("rounds", len(s.history)).Msg("game over")
	s.presenter.GameOver(sum)
}

func (s *Session) summary() Summary {
	sum := Summary{
		Code:       s.Code,
		Score:      s.Score,
		Reason:     s.Reason,
		BestStreak: s.bestStreak,
		Rounds:     make([]RoundRecord, 0, len(s.history)),
		StartedAt:  s.startedAt,
		EndedAt:    s.endedAt,
	}
	for _, r := range s.history {
		if r.Outcome == OutcomeCorrect {
			sum.Correct++
		}
		sum.Rounds = append(sum.Rounds, r.record())
	}
	return sum
}

// Message is the text shown to the player when the game ends.
func (r EndReason) Message() string {
	switch r {
	case ReasonTimeUp:
		return "Time's up!"
	case ReasonPoolExhausted:
		return "Not enough playable tracks to continue."
	case ReasonUnloaded:
		return "Game abandoned."
	default:
		return "Game over."
	}
}
