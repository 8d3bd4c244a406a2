package game

import (
	"math/rand"
)

// MaxDrawAttempts bounds the random picks DrawDistinct makes before giving up.
const MaxDrawAttempts = 50

// Playable is the default draw predicate.
func Playable(t Track) bool { return t.Playable }

// TrackPool holds the tracks that have not been used as a correct answer yet.
type TrackPool struct {
	tracks []Track
	rng    *rand.Rand
}

// NewTrackPool copies tracks into a pool, dropping repeated IDs. It fails with
// ErrEmptyPool when fewer than ChoiceCount of them are playable.
func NewTrackPool(tracks []Track, rng *rand.Rand) (*TrackPool, error) {
	p := &TrackPool{tracks: make([]Track, 0, len(tracks)), rng: rng}
	for _, t := range tracks {
		p.Add(t)
	}
	if p.Playable() < ChoiceCount {
		return nil, ErrEmptyPool
	}
	return p, nil
}

func (p *TrackPool) Len() int { return len(p.tracks) }

func (p *TrackPool) Playable() int {
	n := 0
	for _, t := range p.tracks {
		if Playable(t) {
			n++
		}
	}
	return n
}

func (p *TrackPool) Contains(id string) bool {
	return p.index(id) >= 0
}

// Add appends t unless a track with the same ID is already pooled.
func (p *TrackPool) Add(t Track) bool {
	if p.Contains(t.ID) {
		return false
	}
	p.tracks = append(p.tracks, t)
	return true
}

// Remove drops the track with the given ID. Removing an absent track is a
// no-op and reports false.
func (p *TrackPool) Remove(id string) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	p.tracks = append(p.tracks[:i], p.tracks[i+1:]...)
	return true
}

// DrawDistinct picks n distinct tracks matching pred, uniformly at random from
// the current contents. The pool itself is not changed.
func (p *TrackPool) DrawDistinct(n int, pred func(Track) bool) ([]Track, error) {
	if pred == nil {
		pred = Playable
	}
	out := make([]Track, 0, n)
	if len(p.tracks) == 0 {
		return nil, ErrInsufficientPool
	}
	picked := make(map[string]bool, n)
	for attempts := 0; len(out) < n && attempts < MaxDrawAttempts; attempts++ {
		t := p.tracks[p.rng.Intn(len(p.tracks))]
		if picked[t.ID] || !pred(t) {
			continue
		}
		picked[t.ID] = true
		out = append(out, t)
	}
	if len(out) < n {
		return nil, ErrInsufficientPool
	}
	return out, nil
}

func (p *TrackPool) index(id string) int {
	for i, t := range p.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
