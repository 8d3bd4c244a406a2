package game

import (
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/clock"
	"github.com/google/uuid"
)

type EventKind int

const (
	EventPlaybackStarted EventKind = iota
	EventTick
	EventGuess
	EventForfeit
)

// Event drives a round transition. Index is used by EventGuess, Cause by
// EventForfeit.
type Event struct {
	Kind  EventKind
	Index int
	Cause Cause
}

// Round is one guessing cycle. It is owned by its Session and only mutated
// under the session lock.
type Round struct {
	ID                string
	Index             int
	Choices           []Track
	CorrectIndex      int
	Disabled          []int
	TimeRemaining     time.Duration
	ScoreAwarded      int
	MultiplierApplied int
	Status            Status
	Outcome           Outcome
	Cause             Cause
	Handle            ChoiceHandle
	CreatedAt         time.Time
	StartedAt         time.Time
	ResolvedAt        time.Time

	lastTick time.Time
	ticker   clock.Timer
}

// newRound draws the choices, picks and removes the answer from the pool and
// asks the presenter to render and play. The round is left awaiting playback.
func newRound(s *Session, index int) (*Round, error) {
	choices, err := s.pool.DrawDistinct(ChoiceCount, Playable)
	if err != nil {
		return nil, err
	}
	r := &Round{
		ID:            uuid.NewString(),
		Index:         index,
		Choices:       choices,
		CorrectIndex:  s.rng.Intn(len(choices)),
		TimeRemaining: s.Config.roundTime(),
		Status:        StatusCreated,
		CreatedAt:     s.clock.Now(),
	}
	s.pool.Remove(r.Correct().ID)

	r.Handle = s.presenter.RenderChoices(index, append([]Track(nil), choices...))
	s.presenter.PlayTrack(r.Correct())
	s.presenter.UpdateTimerDisplay(r.TimeRemaining, clampZero(s.remaining))
	r.Status = StatusAwaitingPlayback
	return r, nil
}

func (r *Round) Correct() Track { return r.Choices[r.CorrectIndex] }

func (r *Round) IsDisabled(i int) bool {
	for _, d := range r.Disabled {
		if d == i {
			return true
		}
	}
	return false
}

// handle applies ev to the round. Events that have no transition from the
// current status are ignored.
func (r *Round) handle(s *Session, ev Event) {
	switch r.Status {
	case StatusAwaitingPlayback:
		switch ev.Kind {
		case EventPlaybackStarted:
			r.activate(s)
		case EventForfeit:
			r.resolve(s, OutcomeTimedOut, ev.Cause)
		}
	case StatusActive:
		switch ev.Kind {
		case EventTick:
			r.tick(s)
		case EventGuess:
			r.guess(s, ev.Index)
		case EventForfeit:
			r.resolve(s, OutcomeTimedOut, ev.Cause)
		}
	}
}

func (r *Round) activate(s *Session) {
	now := s.clock.Now()
	r.Status = StatusActive
	r.StartedAt = now
	r.lastTick = now
	r.ticker = s.clock.Every(s.Config.tick(), func() { s.onTick(r) })
	s.log.Debug().Int("round", r.Index).Msg("playback started")
}

func (r *Round) tick(s *Session) {
	step := s.Config.tick()
	r.lastTick = s.clock.Now()
	r.TimeRemaining -= step
	s.remaining -= step
	s.presenter.UpdateTimerDisplay(clampZero(r.TimeRemaining), clampZero(s.remaining))

	switch {
	case s.remaining <= 0:
		r.resolve(s, OutcomeTimedOut, CauseSessionTime)
	case r.TimeRemaining <= 0:
		r.resolve(s, OutcomeTimedOut, CauseRoundTime)
	}
}

func (r *Round) guess(s *Session, i int) {
	if i == r.CorrectIndex {
		r.correct(s)
		return
	}
	if r.IsDisabled(i) {
		return
	}
	r.Disabled = append(r.Disabled, i)
	s.presenter.MarkInactive(r.Handle, i)
	s.setMultiplier(1)

	p := s.Config.penalty()
	r.TimeRemaining -= p
	s.remaining -= p
	s.presenter.UpdateTimerDisplay(clampZero(r.TimeRemaining), clampZero(s.remaining))

	switch {
	case r.TimeRemaining <= 0:
		r.resolve(s, OutcomeTimedOut, CausePenalty)
	case s.remaining <= 0:
		r.resolve(s, OutcomeTimedOut, CauseSessionTime)
	}
}

func (r *Round) correct(s *Session) {
	// time since the last tick has not been charged yet
	elapsed := s.clock.Now().Sub(r.lastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	if step := s.Config.tick(); elapsed > step {
		elapsed = step
	}
	r.TimeRemaining -= elapsed
	s.remaining -= elapsed

	switch {
	case s.remaining <= 0:
		r.resolve(s, OutcomeTimedOut, CauseSessionTime)
		return
	case r.TimeRemaining <= 0:
		r.resolve(s, OutcomeTimedOut, CauseRoundTime)
		return
	}

	r.MultiplierApplied = s.Multiplier
	r.ScoreAwarded = roundScore(s.Config.MaxRoundScore, r.TimeRemaining, s.Config.roundTime(), s.Multiplier)
	next := s.Multiplier + 1
	if next > s.Config.MaxMultiplier {
		next = s.Config.MaxMultiplier
	}
	s.setMultiplier(next)
	r.resolve(s, OutcomeCorrect, CauseGuess)
}

// resolve is the single exit from a live round.
func (r *Round) resolve(s *Session, o Outcome, c Cause) {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
	r.Status = StatusResolved
	r.Outcome = o
	r.Cause = c
	r.ResolvedAt = s.clock.Now()
	if o == OutcomeTimedOut {
		r.ScoreAwarded = 0
		s.setMultiplier(1)
	}
	s.presenter.StopPlayback()
	s.presenter.Dispose(r.Handle)
	s.roundResolved(r)
}

func (r *Round) record() RoundRecord {
	return RoundRecord{
		Index:             r.Index,
		Track:             r.Correct(),
		Outcome:           r.Outcome,
		Cause:             r.Cause,
		Score:             r.ScoreAwarded,
		WrongGuesses:      len(r.Disabled),
		MultiplierApplied: r.MultiplierApplied,
		RemainingMs:       clampZero(r.TimeRemaining).Milliseconds(),
	}
}

// roundScore is ceil(maxScore / duration * remaining * multiplier), computed
// in integers so exact results are not pushed up by float error.
func roundScore(maxScore int, remaining, duration time.Duration, multiplier int) int {
	if remaining <= 0 || duration <= 0 {
		return 0
	}
	num := int64(maxScore) * int64(remaining) * int64(multiplier)
	d := int64(duration)
	return int((num + d - 1) / d)
}

func clampZero(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
