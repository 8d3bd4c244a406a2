package game

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/clock"
	"github.com/rs/zerolog"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidPhase      = errors.New("invalid phase for action")
	ErrEmptyPool         = errors.New("not enough playable tracks to start")
	ErrInsufficientPool  = errors.New("not enough playable tracks to continue")
	ErrInvalidGuessIndex = errors.New("guess index out of range")
)

// RoomManager keeps the independent single-player sessions hosted by one
// server, keyed by a short code.
type RoomManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	active   string // most recently created session

	library  []Track
	bonus    *Track
	defaults SessionConfig
	clock    clock.Clock
	log      zerolog.Logger
}

func NewRoomManager(library []Track, bonus *Track, defaults SessionConfig) *RoomManager {
	return &RoomManager{
		sessions: make(map[string]*Session),
		library:  library,
		bonus:    bonus,
		defaults: defaults.WithDefaults(DefaultSessionConfig()),
		clock:    clock.Real(),
		log:      zerolog.Nop(),
	}
}

func (rm *RoomManager) SetClock(c clock.Clock)     { rm.clock = c }
func (rm *RoomManager) SetLogger(l zerolog.Logger) { rm.log = l }
func (rm *RoomManager) Defaults() SessionConfig    { return rm.defaults }
func (rm *RoomManager) Bonus() *Track              { return rm.bonus }

// Library returns a copy of the shared track library.
func (rm *RoomManager) Library() []Track {
	return append([]Track(nil), rm.library...)
}

// CreateSession registers a new idle session that reports to p. Zero fields
// in cfg take the manager's defaults.
func (rm *RoomManager) CreateSession(cfg SessionConfig, p Presenter) (code string, s *Session, err error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	code = randomCode(5)
	for rm.sessions[code] != nil {
		code = randomCode(5)
	}
	logger := rm.log.With().Str("code", code).Logger()
	s = NewSession(code, cfg.WithDefaults(rm.defaults), rm.library, rm.bonus, Deps{
		Presenter: p,
		Clock:     rm.clock,
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:    &logger,
	})
	rm.sessions[code] = s
	rm.active = code
	return code, s, nil
}

func (rm *RoomManager) Get(code string) (*Session, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	s := rm.sessions[code]
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (rm *RoomManager) Active() (string, *Session) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	if rm.active == "" {
		return "", nil
	}
	return rm.active, rm.sessions[rm.active]
}

// Remove forgets a session. It does not end it.
func (rm *RoomManager) Remove(code string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.sessions, code)
	if rm.active == code {
		rm.active = ""
	}
}

// List returns snapshots of all sessions ordered by creation time.
func (rm *RoomManager) List() []SessionView {
	rm.mu.RLock()
	all := make([]*Session, 0, len(rm.sessions))
	for _, s := range rm.sessions {
		all = append(all, s)
	}
	rm.mu.RUnlock()

	out := make([]SessionView, 0, len(all))
	for _, s := range all {
		out = append(out, s.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
