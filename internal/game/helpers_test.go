package game

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/clock"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	rendered    [][]Track
	inactive    []int
	disposed    []ChoiceHandle
	played      []Track
	stops       int
	timers      []time.Duration
	scores      []int
	multipliers []int
	over        []Summary
}

func (p *recorder) RenderChoices(round int, tracks []Track) ChoiceHandle {
	p.rendered = append(p.rendered, tracks)
	return ChoiceHandle(fmt.Sprintf("round-%d", round))
}
func (p *recorder) MarkInactive(h ChoiceHandle, index int) { p.inactive = append(p.inactive, index) }
func (p *recorder) Dispose(h ChoiceHandle)                 { p.disposed = append(p.disposed, h) }
func (p *recorder) PlayTrack(t Track)                      { p.played = append(p.played, t) }
func (p *recorder) StopPlayback()                          { p.stops++ }
func (p *recorder) UpdateTimerDisplay(round, session time.Duration) {
	p.timers = append(p.timers, round)
}
func (p *recorder) UpdateScoreDisplay(score int)  { p.scores = append(p.scores, score) }
func (p *recorder) UpdateMultiplierDisplay(m int) { p.multipliers = append(p.multipliers, m) }
func (p *recorder) GameOver(sum Summary)          { p.over = append(p.over, sum) }

func makeLibrary(n int) []Track {
	out := make([]Track, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Track{
			ID:       fmt.Sprintf("track:%d", i),
			Title:    fmt.Sprintf("Song %d", i),
			Artist:   fmt.Sprintf("Artist %d", i),
			Playable: true,
		})
	}
	return out
}

func newTestSession(t *testing.T, cfg SessionConfig, library []Track, bonus *Track) (*Session, *recorder, *clock.Manual) {
	t.Helper()
	p := &recorder{}
	c := clock.NewManual(epoch)
	s := NewSession("TEST1", cfg, library, bonus, Deps{
		Presenter: p,
		Clock:     c,
		Rand:      rand.New(rand.NewSource(1)),
	})
	return s, p, c
}

// startedSession returns a running session whose first round is Active.
func startedSession(t *testing.T, cfg SessionConfig, n int) (*Session, *recorder, *clock.Manual) {
	t.Helper()
	cfg.Bonus = BonusNever
	s, p, c := newTestSession(t, cfg, makeLibrary(n), nil)
	if err := s.Start(); err != nil {
		t.Fatalf("should be able to start: %v", err)
	}
	s.PlaybackStarted()
	if s.current == nil || s.current.Status != StatusActive {
		t.Fatal("first round should be active after playback started")
	}
	return s, p, c
}

// wrongIndices lists the choices of r that are not the answer.
func wrongIndices(r *Round) []int {
	var out []int
	for i := 0; i < ChoiceCount; i++ {
		if i != r.CorrectIndex {
			out = append(out, i)
		}
	}
	return out
}
