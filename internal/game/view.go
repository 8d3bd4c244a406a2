package game

import "time"

// RoundView is the public state of a round. The answer is only included once
// the round is resolved.
type RoundView struct {
	ID          string  `json:"id"`
	Index       int     `json:"index"`
	Status      Status  `json:"status"`
	Outcome     Outcome `json:"outcome,omitempty"`
	Choices     []Track `json:"choices"`
	Disabled    []int   `json:"disabled"`
	RemainingMs int64   `json:"remainingMs"`
	Correct     *int    `json:"correctIndex,omitempty"`
}

type SessionView struct {
	Code        string        `json:"code"`
	CreatedAt   time.Time     `json:"createdAt"`
	Phase       Phase         `json:"phase"`
	Score       int           `json:"score"`
	Multiplier  int           `json:"multiplier"`
	RemainingMs int64         `json:"remainingMs"`
	Rounds      int           `json:"rounds"`
	Round       *RoundView    `json:"round,omitempty"`
	Reason      EndReason     `json:"reason,omitempty"`
	Config      SessionConfig `json:"config"`
}

func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := SessionView{
		Code:        s.Code,
		CreatedAt:   s.CreatedAt,
		Phase:       s.Phase,
		Score:       s.Score,
		Multiplier:  s.Multiplier,
		RemainingMs: clampZero(s.remaining).Milliseconds(),
		Rounds:      len(s.history),
		Reason:      s.Reason,
		Config:      s.Config,
	}
	if s.current != nil {
		v.Round = s.current.view()
	}
	return v
}

func (r *Round) view() *RoundView {
	v := &RoundView{
		ID:          r.ID,
		Index:       r.Index,
		Status:      r.Status,
		Outcome:     r.Outcome,
		Choices:     append([]Track(nil), r.Choices...),
		Disabled:    append([]int{}, r.Disabled...),
		RemainingMs: clampZero(r.TimeRemaining).Milliseconds(),
	}
	if r.Status == StatusResolved {
		ci := r.CorrectIndex
		v.Correct = &ci
	}
	return v
}
