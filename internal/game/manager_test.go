package game

import (
	"testing"
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/clock"
)

func TestNewRoomManager(t *testing.T) {
	rm := NewRoomManager(makeLibrary(8), nil, SessionConfig{})
	if rm.sessions == nil {
		t.Fatal("sessions map should be initialized")
	}
	if rm.active != "" {
		t.Fatal("active session should be empty initially")
	}
	if rm.Defaults() != DefaultSessionConfig() {
		t.Fatalf("expected default config, got %+v", rm.Defaults())
	}
}

func TestCreateSession(t *testing.T) {
	defaults := DefaultSessionConfig()
	defaults.MaxRoundScore = 30
	rm := NewRoomManager(makeLibrary(8), nil, defaults)
	rm.SetClock(clock.NewManual(epoch))

	code, sess, err := rm.CreateSession(SessionConfig{RoundTimeMs: 10000}, &recorder{})
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}
	if code == "" || len(code) != 5 {
		t.Fatalf("unexpected session code %q", code)
	}

	got, err := rm.Get(code)
	if err != nil {
		t.Fatalf("should be able to retrieve created session: %v", err)
	}
	if got != sess {
		t.Fatal("Get should return the created session")
	}
	if sess.Code != code {
		t.Fatalf("expected code %s, got %s", code, sess.Code)
	}
	if sess.Phase != PhaseIdle {
		t.Fatalf("expected phase %s, got %s", PhaseIdle, sess.Phase)
	}
	if sess.Config.RoundTimeMs != 10000 {
		t.Fatalf("expected round time override, got %d", sess.Config.RoundTimeMs)
	}
	if sess.Config.MaxRoundScore != 30 {
		t.Fatalf("expected manager default max score, got %d", sess.Config.MaxRoundScore)
	}
	if !sess.CreatedAt.Equal(epoch) {
		t.Fatalf("session should use the manager clock, got %s", sess.CreatedAt)
	}
}

func TestActiveAndRemove(t *testing.T) {
	rm := NewRoomManager(makeLibrary(8), nil, SessionConfig{})
	if code, s := rm.Active(); code != "" || s != nil {
		t.Fatal("no active session expected")
	}
	first, _, _ := rm.CreateSession(SessionConfig{}, &recorder{})
	second, _, _ := rm.CreateSession(SessionConfig{}, &recorder{})

	if code, _ := rm.Active(); code != second {
		t.Fatalf("expected %s active, got %s", second, code)
	}
	if len(rm.List()) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(rm.List()))
	}

	rm.Remove(second)
	if _, err := rm.Get(second); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if code, _ := rm.Active(); code != "" {
		t.Fatal("removing the active session should clear it")
	}
	if _, err := rm.Get(first); err != nil {
		t.Fatalf("first session should remain: %v", err)
	}
}

func TestManagerSessionsPlay(t *testing.T) {
	rm := NewRoomManager(makeLibrary(12), nil, SessionConfig{Bonus: BonusNever})
	c := clock.NewManual(epoch)
	rm.SetClock(c)
	p := &recorder{}
	_, s, _ := rm.CreateSession(SessionConfig{}, p)

	if err := s.Start(); err != nil {
		t.Fatalf("should be able to start: %v", err)
	}
	s.PlaybackStarted()
	c.Advance(20 * s.Config.tick())
	if s.Remaining() != s.Config.gameTime()-2*time.Second {
		t.Fatalf("expected two seconds used, got %s", s.Remaining())
	}
	if len(rm.Library()) != 12 {
		t.Fatal("library should be untouched by a running session")
	}
}

func TestManagerSessionWaitsInterRoundDelay(t *testing.T) {
	rm := NewRoomManager(makeLibrary(12), nil, SessionConfig{Bonus: BonusNever})
	c := clock.NewManual(epoch)
	rm.SetClock(c)
	_, s, _ := rm.CreateSession(SessionConfig{}, &recorder{})

	if s.Config.InterRoundDelayMs != 2000 {
		t.Fatalf("expected 2000ms inter-round delay, got %d", s.Config.InterRoundDelayMs)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("should be able to start: %v", err)
	}
	s.PlaybackStarted()
	s.Choose(s.current.CorrectIndex)

	c.Advance(1999 * time.Millisecond)
	if s.current != nil || len(s.history) != 1 {
		t.Fatal("next round should not start before the delay")
	}
	c.Advance(time.Millisecond)
	if s.current == nil || s.current.Index != 2 {
		t.Fatal("next round should start after the delay")
	}
}

func TestManagerSharesLibraryAndBonus(t *testing.T) {
	bonus := &Track{ID: "bonus", Title: "Never Gonna Give You Up", Artist: "Rick Astley", Playable: true}
	rm := NewRoomManager(makeLibrary(6), bonus, SessionConfig{})

	if rm.Bonus() != bonus {
		t.Fatal("manager should hand out the configured bonus track")
	}
	lib := rm.Library()
	lib[0].Title = "changed"
	if rm.Library()[0].Title == "changed" {
		t.Fatal("library should be returned as a copy")
	}
}
